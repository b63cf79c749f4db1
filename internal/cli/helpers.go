package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ParseIDArg parses a positional id argument
func ParseIDArg(raw, what string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s id must be a positive integer, got %q", ErrUsage, what, raw)
	}
	return id, nil
}

// ParseUserIDs parses a comma separated list of user ids.
// An empty string yields an empty, non-nil slice.
func ParseUserIDs(raw string) ([]types.UserID, error) {
	out := []types.UserID{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid user id %q in list", ErrUsage, part)
		}
		out = append(out, types.UserID(id))
	}
	return out, nil
}

// ParseStatus maps a status flag to a task status
func ParseStatus(raw string) (models.TaskStatus, error) {
	s, err := models.ParseTaskStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s, nil
}

// ParsePriority maps a priority flag to a priority
func ParsePriority(raw string) (models.Priority, error) {
	p, err := models.ParsePriority(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return p, nil
}

// OptionalInt returns the flag's value and whether it was set explicitly
func OptionalInt(cmd *cobra.Command, name string) (int, bool) {
	if !cmd.Flags().Changed(name) {
		return 0, false
	}
	v, _ := cmd.Flags().GetInt(name)
	return v, true
}

// OptionalString returns the flag's value and whether it was set explicitly
func OptionalString(cmd *cobra.Command, name string) (string, bool) {
	if !cmd.Flags().Changed(name) {
		return "", false
	}
	v, _ := cmd.Flags().GetString(name)
	return v, true
}

// ReadDescription returns value, or everything on in when value is "-"
func ReadDescription(in io.Reader, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading description from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
