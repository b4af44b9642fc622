// Package cli provides CLI commands for the blotter application.
package cli

import (
	gocontext "context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/blotter/internal/wire"
)

// NewContext creates a context.Background() with the configured actor embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	return wire.ActorContext(gocontext.Background())
}

// parseID parses a positive numeric record ID from a command argument.
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return id, nil
}

// parseIDs parses a comma-separated list of IDs. An empty string yields nil.
func parseIDs(kind, arg string) ([]int64, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(arg, ",") {
		id, err := parseID(kind, part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Accepted date layouts for --date style flags, most specific first.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// parseTime parses a flag value in local time. An empty value yields the zero time.
func parseTime(flag, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --%s %q (use YYYY-MM-DD or YYYY-MM-DD HH:MM)", flag, value)
}

// configDir is the directory whose .blotter/config.json the CLI reads and writes.
func configDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return dir, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
