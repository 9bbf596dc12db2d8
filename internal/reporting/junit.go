package reporting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	evalreport "github.com/wolfeidau/langfuse-report"
)

const (
	suiteName     = "langfuse-eval"
	caseClassname = "langfuse"
)

// JUnit renders a run as a JUnit XML test suite. Each item becomes a
// testcase that fails unless its success score is exactly 1.0.
func JUnit(run evalreport.RunResult, successScoreName string) (string, error) {
	if successScoreName == "" {
		successScoreName = evalreport.DefaultSuccessScoreName
	}

	doc := etree.NewDocument()
	doc.WriteSettings.AttrSingleQuote = true
	doc.CreateProcInst("xml", "version='1.0' encoding='UTF-8'")

	suite := doc.CreateElement("testsuite")
	suite.CreateAttr("name", suiteName)
	suite.CreateAttr("tests", strconv.Itoa(len(run.Items)))

	for _, item := range run.Items {
		addTestCase(suite, item, successScoreName)
	}

	doc.Indent(4)

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to write JUnit XML: %w", err)
	}
	return out, nil
}

func addTestCase(suite *etree.Element, item evalreport.EvaluationItem, successScoreName string) {
	tc := suite.CreateElement("testcase")
	tc.CreateAttr("classname", caseClassname)
	tc.CreateAttr("name", item.Name)
	tc.CreateAttr("time", formatNumber(item.DurationSeconds))

	props := tc.CreateElement("properties")
	addProperty(props, "evals.trace_id", item.TraceID)
	if item.Cost != nil {
		addProperty(props, "evals.cost", formatNumber(*item.Cost))
	}
	for name, value := range item.Scores.All() {
		addProperty(props, scorePropertyName(name), formatNumber(value))
	}

	if !item.Passed(successScoreName) {
		failure := tc.CreateElement("failure")
		failure.CreateAttr("message", failureMessage(successScoreName))
	}
}

func addProperty(props *etree.Element, name, value string) {
	p := props.CreateElement("property")
	p.CreateAttr("name", name)
	p.CreateAttr("value", value)
}

// scorePropertyName flattens a score name into a property key; dots would
// otherwise read as extra path segments
func scorePropertyName(scoreName string) string {
	return "evals.scores." + strings.ReplaceAll(scoreName, ".", "_") + ".value"
}

func failureMessage(successScoreName string) string {
	return fmt.Sprintf("Test case failed. %s is either missing or its value is not 1.0", successScoreName)
}
