package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"birlc/internal/ir"
	"birlc/internal/text"
)

// readProgram reads a Program from stdin in the format named by the
// --format flag (json, the wire format named in the external interfaces,
// or text, the companion human-writable surface).
func readProgram(cmd *cobra.Command) (*ir.Program, error) {
	format, _ := cmd.Flags().GetString("format")

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	switch format {
	case "text":
		return text.Parse("<stdin>", string(raw))
	case "json", "":
		var prog ir.Program
		if err := json.Unmarshal(raw, &prog); err != nil {
			return nil, fmt.Errorf("parsing program JSON: %w", err)
		}
		return &prog, nil
	default:
		return nil, fmt.Errorf("unrecognized --format %q (want json or text)", format)
	}
}

// writeProgram emits a Program to stdout in the format named by --format.
func writeProgram(cmd *cobra.Command, prog *ir.Program) error {
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "text":
		_, err := fmt.Fprint(cmd.OutOrStdout(), text.Print(prog))
		return err
	case "json", "":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(prog)
	default:
		return fmt.Errorf("unrecognized --format %q (want json or text)", format)
	}
}

// logStep prints a "  - name: description" pass-progress line to stderr
// when --verbose is set. Progress never goes to stdout: stdout is the
// program (or report) a pass produces, and a pipe consuming it would choke
// on interleaved log lines.
func logStep(cmd *cobra.Command, name, description string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(cmd.ErrOrStderr(), "  - %s: %s\n", name, dim(description))
}

// fail prints a formatted diagnostic to the command's error stream and
// returns a plain error so cobra exits non-zero without also printing its
// own generic error line (root.go sets SilenceErrors for exactly this
// reason).
func fail(cmd *cobra.Command, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
	return fmt.Errorf("%s", msg)
}
