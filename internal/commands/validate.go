package commands

import (
	"fmt"
	"io"
	"os"

	evalreport "github.com/wolfeidau/langfuse-report"
	"github.com/wolfeidau/langfuse-report/internal/help"
)

// ValidateCmd handles the validate command
type ValidateCmd struct {
	Config string `help:"Path to configuration file (YAML or JSON)" required:"" type:"path"`
}

// Run executes the validate command
func (v *ValidateCmd) Run(globals *Globals) error {
	return v.run(os.Stdout)
}

func (v *ValidateCmd) run(w io.Writer) error {
	styles := help.DefaultStyles()

	result, err := evalreport.ValidateConfigFile(v.Config)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if result.Valid {
		fmt.Fprintln(w, styles.Success.Render("✓ Configuration is valid: "+v.Config))
		return nil
	}

	fmt.Fprintln(w, styles.Error.Render(fmt.Sprintf("✗ Configuration has %d error(s):", len(result.Errors))))
	fmt.Fprintln(w)
	for i, verr := range result.Errors {
		if verr.Path != "" {
			fmt.Fprintf(w, "%d. [%s] %s\n", i+1, verr.Path, verr.Message)
		} else {
			fmt.Fprintf(w, "%d. %s\n", i+1, verr.Message)
		}
	}
	fmt.Fprintln(w)

	return fmt.Errorf("validation failed")
}
