package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
	evalreport "github.com/wolfeidau/langfuse-report"
	"github.com/wolfeidau/langfuse-report/internal/reporting"
)

// ReportCmd handles the report command
type ReportCmd struct {
	DatasetName      string `help:"Name of the Langfuse dataset containing the run" required:""`
	RunName          string `help:"Name of the dataset run to report on" required:""`
	ReportType       string `help:"Report format: junit for CI/CD, text for a human readable summary (default junit; any other value is rejected)" placeholder:"junit|text"`
	SuccessScoreName string `help:"Score whose value of exactly 1.0 marks an item as passing (default did_item_pass)"`
	OutputFile       string `help:"Write the report to this file instead of stdout" type:"path"`
	Config           string `help:"Path to configuration file (YAML or JSON)" type:"existingfile"`
	Host             string `help:"Langfuse base URL (overrides LANGFUSE_HOST env var)"`
	PublicKey        string `help:"Langfuse public key (overrides LANGFUSE_PUBLIC_KEY env var)"`
	SecretKey        string `help:"Langfuse secret key (overrides LANGFUSE_SECRET_KEY env var)"`
	Timeout          string `help:"HTTP timeout for Langfuse requests (overrides LANGFUSE_TIMEOUT env var)"`
	Quiet            bool   `help:"Suppress progress output" short:"q"`
}

// Run executes the report command
func (r *ReportCmd) Run(globals *Globals) error {
	return r.run(context.Background(), envconfig.OsLookuper(), os.Stdout, os.Stderr)
}

func (r *ReportCmd) run(ctx context.Context, env envconfig.Lookuper, stdout, stderr io.Writer) error {
	config, err := r.resolveConfig(ctx, env)
	if err != nil {
		return err
	}

	reportType, err := reporting.ParseReportType(string(config.ReportType))
	if err != nil {
		return err
	}

	clientConfig, err := config.ClientConfig()
	if err != nil {
		return err
	}

	client := createClient(clientConfig, r.Quiet, stderr)

	log.Debug().Str("host", clientConfig.Host).Str("dataset", r.DatasetName).Str("run", r.RunName).Msg("fetching dataset run")

	run, err := client.FetchRun(ctx, r.DatasetName, r.RunName)
	if err != nil {
		log.Error().Err(err).Str("dataset", r.DatasetName).Str("run", r.RunName).Msg("failed to fetch dataset run")
		return err
	}

	report, err := reporting.Render(*run, reportType, config.SuccessScoreName)
	if err != nil {
		return fmt.Errorf("failed to render %s report: %w", reportType, err)
	}

	return writeReport(r.OutputFile, report, stdout)
}

// resolveConfig layers environment, config file and flags, later wins
func (r *ReportCmd) resolveConfig(ctx context.Context, env envconfig.Lookuper) (*evalreport.Config, error) {
	config, err := evalreport.ConfigFromEnv(ctx, env)
	if err != nil {
		return nil, err
	}

	if r.Config != "" {
		fileConfig, err := evalreport.LoadConfig(r.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		config.Merge(fileConfig)
	}

	config.Merge(&evalreport.Config{
		Host:             r.Host,
		PublicKey:        r.PublicKey,
		SecretKey:        r.SecretKey,
		Timeout:          evalreport.Duration(r.Timeout),
		SuccessScoreName: r.SuccessScoreName,
		ReportType:       evalreport.ReportKind(r.ReportType),
	})

	if config.SuccessScoreName == "" {
		config.SuccessScoreName = evalreport.DefaultSuccessScoreName
	}
	if config.ReportType == "" {
		config.ReportType = evalreport.ReportKind(reporting.ReportJUnit)
	}

	return config, nil
}

// writeReport prints the report to stdout, or replaces path with it
func writeReport(path, report string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, report)
		return err
	}

	if err := os.WriteFile(path, []byte(report), 0600); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("report written")

	return nil
}
