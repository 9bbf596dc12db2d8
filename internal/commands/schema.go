package commands

import (
	"fmt"

	evalreport "github.com/wolfeidau/langfuse-report"
)

// SchemaCmd handles the schema command
type SchemaCmd struct{}

// Run executes the schema command
func (s *SchemaCmd) Run(globals *Globals) error {
	schema, err := evalreport.SchemaForConfig()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)
	return nil
}
