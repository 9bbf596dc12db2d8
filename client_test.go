package evalreport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const runJSON = `{
  "id": "run-1",
  "name": "nightly",
  "datasetName": "qa set",
  "datasetRunItems": [
    {"id": "item-1", "datasetItemId": "ds-1", "traceId": "trace-123"},
    {"id": "item-2", "datasetItemId": "ds-2", "traceId": "trace-456"}
  ]
}`

const trace123JSON = `{
  "id": "trace-123",
  "latency": 2.5,
  "totalCost": 0.15,
  "scores": [
    {"name": "accuracy", "value": 0.95},
    {"name": "did_item_pass", "value": 1},
    {"name": "tone", "value": null}
  ]
}`

const trace456JSON = `{
  "id": "trace-456",
  "latency": null,
  "totalCost": null,
  "scores": []
}`

func newLangfuseServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/public/datasets/{dataset}/runs/{run}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("dataset") != "qa set" || r.PathValue("run") != "nightly" {
			http.Error(w, `{"message":"Dataset run not found"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(runJSON))
	})
	mux.HandleFunc("GET /api/public/traces/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "trace-123":
			_, _ = w.Write([]byte(trace123JSON))
		case "trace-456":
			_, _ = w.Write([]byte(trace456JSON))
		default:
			http.Error(w, `{"message":"Trace not found"}`, http.StatusNotFound)
		}
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "pk-lf-test" || pass != "sk-lf-test" {
			http.Error(w, `{"message":"Invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_FetchRun(t *testing.T) {
	assert := require.New(t)

	srv := newLangfuseServer(t)

	var progress [][2]int
	client := NewClient(ClientConfig{
		Host:      srv.URL + "/",
		PublicKey: "pk-lf-test",
		SecretKey: "sk-lf-test",
		Progress: func(done, total int) {
			progress = append(progress, [2]int{done, total})
		},
	})

	run, err := client.FetchRun(context.Background(), "qa set", "nightly")
	assert.NoError(err)

	assert.Equal("qa set", run.DatasetName)
	assert.Equal("nightly", run.RunName)
	assert.Len(run.Items, 2)

	first := run.Items[0]
	assert.Equal("item-1", first.Name)
	assert.Equal("trace-123", first.TraceID)
	assert.NotNil(first.Cost)
	assert.InDelta(0.15, *first.Cost, 1e-9)
	assert.InDelta(2.5, first.DurationSeconds, 1e-9)
	assert.Equal(2, first.Scores.Len(), "null score values are dropped")
	assert.True(first.Passed(DefaultSuccessScoreName))

	second := run.Items[1]
	assert.Equal("item-2", second.Name)
	assert.Nil(second.Cost)
	assert.Zero(second.DurationSeconds)
	assert.Equal(0, second.Scores.Len())

	assert.Equal([][2]int{{1, 2}, {2, 2}}, progress)
}

func TestClient_FetchRunErrors(t *testing.T) {
	srv := newLangfuseServer(t)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(failing.Close)

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	t.Cleanup(garbage.Close)

	tests := []struct {
		name     string
		host     string
		secret   string
		run      string
		kind     FetchErrorKind
		sentinel error
	}{
		{name: "run not found", host: srv.URL, secret: "sk-lf-test", run: "missing", kind: FetchErrorNotFound, sentinel: ErrNotFound},
		{name: "bad credentials", host: srv.URL, secret: "wrong", run: "nightly", kind: FetchErrorAuth, sentinel: ErrAuth},
		{name: "server unreachable", host: closedURL, secret: "sk-lf-test", run: "nightly", kind: FetchErrorNetwork, sentinel: ErrNetwork},
		{name: "server error", host: failing.URL, secret: "sk-lf-test", run: "nightly", kind: FetchErrorUnexpected},
		{name: "invalid body", host: garbage.URL, secret: "sk-lf-test", run: "nightly", kind: FetchErrorUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := require.New(t)

			client := NewClient(ClientConfig{Host: tt.host, PublicKey: "pk-lf-test", SecretKey: tt.secret})

			_, err := client.FetchRun(context.Background(), "qa set", tt.run)
			assert.Error(err)

			var fetchErr *FetchError
			assert.True(errors.As(err, &fetchErr))
			assert.Equal(tt.kind, fetchErr.Kind)

			if tt.sentinel != nil {
				assert.ErrorIs(err, tt.sentinel)
			}
			assert.Contains(err.Error(), "failed to fetch")
		})
	}
}

func TestClient_FetchRunMissingTrace(t *testing.T) {
	assert := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/public/datasets/ds/runs/r" {
			_, _ = w.Write([]byte(`{"datasetRunItems":[{"id":"i","traceId":"gone"}]}`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{Host: srv.URL, PublicKey: "pk", SecretKey: "sk"})

	_, err := client.FetchRun(context.Background(), "ds", "r")
	assert.ErrorIs(err, ErrNotFound)
	assert.Contains(err.Error(), "trace gone")
}

func TestClient_FetchRunNoItems(t *testing.T) {
	assert := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"run","name":"r","datasetRunItems":null}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{Host: srv.URL, PublicKey: "pk", SecretKey: "sk"})

	run, err := client.FetchRun(context.Background(), "ds", "r")
	assert.NoError(err)
	assert.Empty(run.Items)
}

func TestClient_FetchRunMissingCredentials(t *testing.T) {
	client := NewClient(ClientConfig{Host: "http://127.0.0.1:1"})

	_, err := client.FetchRun(context.Background(), "ds", "r")
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestClient_Defaults(t *testing.T) {
	assert := require.New(t)

	client := NewClient(ClientConfig{})
	assert.Equal(DefaultHost, client.config.Host)
	assert.Equal(DefaultTimeout, client.config.Timeout)
	assert.Equal(DefaultTimeout, client.httpClient.Timeout)
}

func TestClient_FetchRunTimeout(t *testing.T) {
	assert := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	// no client level timeout, the per-request deadline must fire
	client := NewClient(ClientConfig{
		Host:       srv.URL,
		PublicKey:  "pk",
		SecretKey:  "sk",
		Timeout:    50 * time.Millisecond,
		HTTPClient: &http.Client{},
	})

	start := time.Now()
	_, err := client.FetchRun(context.Background(), "ds", "r")
	assert.ErrorIs(err, ErrNetwork)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.Less(time.Since(start), time.Second)
}
