package evalreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultHost    = "https://cloud.langfuse.com"
	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of a failed response is kept in the error
	maxErrorBody = 512
)

type ClientConfig struct {
	Host       string
	PublicKey  string
	SecretKey  string
	Timeout    time.Duration
	HTTPClient *http.Client

	// Progress is called after each trace is fetched
	Progress func(done, total int)
}

// Client fetches dataset runs and their traces from the Langfuse public API
type Client struct {
	httpClient *http.Client
	config     ClientConfig
}

func NewClient(config ClientConfig) *Client {
	if config.Host == "" {
		config.Host = DefaultHost
	}
	config.Host = strings.TrimRight(config.Host, "/")
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		config:     config,
	}
}

type datasetRunResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	DatasetName     string                   `json:"datasetName"`
	DatasetRunItems []datasetRunItemResponse `json:"datasetRunItems"`
}

type datasetRunItemResponse struct {
	ID            string `json:"id"`
	DatasetItemID string `json:"datasetItemId"`
	TraceID       string `json:"traceId"`
}

type traceResponse struct {
	ID        string          `json:"id"`
	Latency   *float64        `json:"latency"`
	TotalCost *float64        `json:"totalCost"`
	Scores    []scoreResponse `json:"scores"`
}

type scoreResponse struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// FetchRun retrieves a dataset run and the trace of every item in it.
// Items are returned in the order the API lists them.
func (c *Client) FetchRun(ctx context.Context, datasetName, runName string) (*RunResult, error) {
	if c.config.PublicKey == "" || c.config.SecretKey == "" {
		return nil, ErrMissingCredentials
	}

	var run datasetRunResponse
	path := fmt.Sprintf("/api/public/datasets/%s/runs/%s", url.PathEscape(datasetName), url.PathEscape(runName))
	op := fmt.Sprintf("run %s in dataset %s", runName, datasetName)
	if err := c.get(ctx, path, op, &run); err != nil {
		return nil, err
	}

	log.Debug().Str("dataset", datasetName).Str("run", runName).Int("items", len(run.DatasetRunItems)).Msg("fetched dataset run")

	result := &RunResult{
		DatasetName: datasetName,
		RunName:     runName,
		Items:       make([]EvaluationItem, 0, len(run.DatasetRunItems)),
	}

	for i, runItem := range run.DatasetRunItems {
		item, err := c.fetchItem(ctx, runItem)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, item)

		if c.config.Progress != nil {
			c.config.Progress(i+1, len(run.DatasetRunItems))
		}
	}

	return result, nil
}

func (c *Client) fetchItem(ctx context.Context, runItem datasetRunItemResponse) (EvaluationItem, error) {
	var trace traceResponse
	path := "/api/public/traces/" + url.PathEscape(runItem.TraceID)
	if err := c.get(ctx, path, "trace "+runItem.TraceID, &trace); err != nil {
		return EvaluationItem{}, err
	}

	item := EvaluationItem{
		Name:    runItem.ID,
		TraceID: runItem.TraceID,
		Cost:    trace.TotalCost,
	}
	if trace.Latency != nil {
		item.DurationSeconds = *trace.Latency
	}

	for _, score := range trace.Scores {
		// categorical and unset scores have no numeric value
		if score.Value == nil {
			continue
		}
		item.Scores.Set(score.Name, *score.Value)
	}

	log.Debug().Str("trace_id", runItem.TraceID).Int("scores", item.Scores.Len()).Msg("fetched trace")

	return item, nil
}

func (c *Client) get(ctx context.Context, path, op string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Host+path, nil)
	if err != nil {
		return &FetchError{Kind: FetchErrorUnexpected, Op: op, Err: err}
	}
	req.SetBasicAuth(c.config.PublicKey, c.config.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Kind: FetchErrorNetwork, Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))

		switch resp.StatusCode {
		case http.StatusNotFound:
			return &FetchError{Kind: FetchErrorNotFound, Op: op, Err: statusErr}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &FetchError{Kind: FetchErrorAuth, Op: op, Err: statusErr}
		default:
			return &FetchError{Kind: FetchErrorUnexpected, Op: op, Err: statusErr}
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		kind := FetchErrorUnexpected
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			kind = FetchErrorNetwork
		}
		return &FetchError{Kind: kind, Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}
