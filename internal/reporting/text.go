package reporting

import (
	"fmt"
	"strings"

	evalreport "github.com/wolfeidau/langfuse-report"
)

// Heading helpers for consistent spacing
func h1(text string) string {
	return "# " + text + "\n"
}

// Text renders a plain summary of the run: item count followed by the
// average, count and sum of every score in first-seen order.
func Text(run evalreport.RunResult) (string, error) {
	var output strings.Builder

	output.WriteString(h1("Eval " + run.RunName))
	output.WriteString(fmt.Sprintf("%d items\n\n", len(run.Items)))

	output.WriteString(h1("All scores"))
	output.WriteString("\n")

	for _, agg := range evalreport.AggregateScores(run.Items) {
		output.WriteString(fmt.Sprintf("- %s\n", agg.Name))
		output.WriteString(fmt.Sprintf("  avg: %s\n", formatNumber(agg.Avg)))
		output.WriteString(fmt.Sprintf("  count: %d\n", agg.Count))
		output.WriteString(fmt.Sprintf("  sum: %s\n", formatNumber(agg.Sum)))
	}

	return output.String(), nil
}
