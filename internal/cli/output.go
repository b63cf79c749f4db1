package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// AddOutputFlags registers the agent-friendly flags every command carries
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")
}

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	out    io.Writer
	errOut io.Writer
}

// NewFormatter builds a formatter from the command's --json and --quiet flags
// writing to the command's configured streams
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:   jsonOutput,
		Quiet:  quietMode,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
}

// Out is where human-readable output goes
func (f *OutputFormatter) Out() io.Writer {
	return f.out
}

// Success writes data under key as {"success": true, key: data}
func (f *OutputFormatter) Success(key string, data any) error {
	return json.NewEncoder(f.out).Encode(map[string]any{
		"success": true,
		key:       data,
	})
}

// IDs prints one id per line, for quiet mode
func (f *OutputFormatter) IDs(ids ...int) {
	for _, id := range ids {
		fmt.Fprintf(f.out, "%d\n", id)
	}
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	fmt.Fprintf(f.errOut, "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(f.errOut, "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}

// ReportedError marks an error that was already shown to the user
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// IsReported reports whether err was already written by a formatter
func IsReported(err error) bool {
	var r *ReportedError
	return errors.As(err, &r)
}

// Fail reports err with its classified code and returns it marked as reported
func (f *OutputFormatter) Fail(err error) error {
	return f.FailWithSuggestion(err, "")
}

// FailWithSuggestion is Fail with a hint for the user
func (f *OutputFormatter) FailWithSuggestion(err error, suggestion string) error {
	code, _ := Classify(err)
	_ = f.ErrorWithSuggestion(code, err.Error(), suggestion)
	return &ReportedError{Err: err}
}

// FailInit reports a failure to set up the CLI itself
func (f *OutputFormatter) FailInit(err error) error {
	_ = f.Error("INITIALIZATION_ERROR", err.Error())
	return &ReportedError{Err: err}
}
