package reporting

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	evalreport "github.com/wolfeidau/langfuse-report"
)

var ErrUnknownReportType = errors.New("unknown report type")

// ReportType selects the output format
type ReportType string

const (
	ReportJUnit ReportType = "junit"
	ReportText  ReportType = "text"
)

func ParseReportType(s string) (ReportType, error) {
	switch rt := ReportType(strings.ToLower(strings.TrimSpace(s))); rt {
	case ReportJUnit, ReportText:
		return rt, nil
	default:
		return "", fmt.Errorf("%w: %q (expected junit or text)", ErrUnknownReportType, s)
	}
}

// Render produces the report for run in the requested format. The result
// always ends with a newline.
func Render(run evalreport.RunResult, reportType ReportType, successScoreName string) (string, error) {
	var (
		out string
		err error
	)

	switch reportType {
	case ReportJUnit:
		out, err = JUnit(run, successScoreName)
	case ReportText:
		out, err = Text(run)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownReportType, reportType)
	}
	if err != nil {
		return "", err
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

// formatNumber renders the shortest decimal that round-trips, keeping a
// trailing ".0" on whole numbers so 1 reads as 1.0
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
