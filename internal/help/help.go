package help

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
)

// Printer creates a custom help printer with lipgloss styling
func Printer(styles Styles) kong.HelpPrinter {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		return printHelp(ctx.Stdout, options, ctx, styles)
	}
}

func printHelp(w io.Writer, options kong.HelpOptions, ctx *kong.Context, styles Styles) error {
	selected := ctx.Selected()
	if selected == nil {
		selected = ctx.Model.Node
	}

	printUsage(w, selected, styles)

	if selected.Help != "" {
		fmt.Fprintf(w, "\n%s\n", selected.Help)
	}
	if selected.Detail != "" && !options.Summary {
		fmt.Fprintf(w, "\n%s\n", styles.Description.Render(selected.Detail))
	}

	nodes := selected.Leaves(true)
	if len(nodes) > 0 && selected.Type == kong.ApplicationNode {
		printCommands(w, nodes, styles)
	}

	var flatFlags []*kong.Flag
	for _, flagGroup := range selected.AllFlags(true) {
		flatFlags = append(flatFlags, flagGroup...)
	}
	printFlags(w, flatFlags, styles)

	return nil
}

func printUsage(w io.Writer, node *kong.Node, styles Styles) {
	usage := styles.Section.Render("Usage:") + " " + styles.Title.Render(node.FullPath())

	// Required flags are spelled out so the usage line is copy-pastable
	for _, group := range node.AllFlags(true) {
		for _, flag := range group {
			if flag.Required && !flag.Hidden {
				usage += " " + styles.Flag.Render(formatFlagName(flag))
			}
		}
	}

	if len(node.AllFlags(true)) > 0 {
		usage += " " + styles.Flag.Render("[flags]")
	}

	if len(node.Leaves(true)) > 0 && node.Type == kong.ApplicationNode {
		usage += " " + styles.Command.Render("<command>")
	}

	fmt.Fprintf(w, "%s\n", usage)
}

func printCommands(w io.Writer, nodes []*kong.Node, styles Styles) {
	fmt.Fprintf(w, "\n%s\n", styles.Section.Render("Commands:"))

	maxLen := 0
	for _, node := range nodes {
		if !node.Hidden && len(node.Name) > maxLen {
			maxLen = len(node.Name)
		}
	}

	for _, node := range nodes {
		if node.Hidden {
			continue
		}

		cmdName := styles.Command.Render(node.Name)
		padding := strings.Repeat(" ", maxLen-len(node.Name)+2)

		fmt.Fprintf(w, "  %s%s%s\n", cmdName, padding, styles.Description.Render(node.Help))
	}
}

func printFlags(w io.Writer, flags []*kong.Flag, styles Styles) {
	if len(flags) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n", styles.Section.Render("Flags:"))

	maxLen := 0
	for _, flag := range flags {
		if !flag.Hidden {
			if n := len(formatFlagName(flag)); n > maxLen {
				maxLen = n
			}
		}
	}

	for _, flag := range flags {
		if flag.Hidden {
			continue
		}

		flagStr := formatFlagName(flag)
		padding := strings.Repeat(" ", maxLen-len(flagStr)+2)

		fmt.Fprintf(w, "  %s%s%s\n", styles.Flag.Render(flagStr), padding, flagHelp(flag, styles))
	}
}

func flagHelp(flag *kong.Flag, styles Styles) string {
	helpText := styles.Description.Render(flag.Help)

	var notes []string
	if flag.Required {
		notes = append(notes, "required")
	}
	if flag.Default != "" {
		notes = append(notes, "default: "+flag.Default)
	}
	if len(flag.Envs) > 0 {
		notes = append(notes, "$"+strings.Join(flag.Envs, ", $"))
	}
	if len(notes) > 0 {
		helpText += " " + styles.Default.Render("("+strings.Join(notes, "; ")+")")
	}

	return helpText
}

func formatFlagName(flag *kong.Flag) string {
	parts := []string{}

	if flag.Short != 0 {
		parts = append(parts, fmt.Sprintf("-%c", flag.Short))
	}

	parts = append(parts, fmt.Sprintf("--%s", flag.Name))

	result := strings.Join(parts, ", ")

	if flag.IsBool() {
		return result
	}

	if flag.Enum != "" {
		return result + "=" + strings.ReplaceAll(flag.Enum, ",", "|")
	}

	return result + "=" + strings.ToUpper(strings.ReplaceAll(flag.Name, "-", "_"))
}
