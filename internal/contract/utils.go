package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/schoolfit/schema"
)

// Color variables for console output, from best to worst fit.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // ExcellentColor marks a close match.
	StrongColor    = color.New(color.FgGreen)
	FairColor      = color.New(color.FgYellow)
	WeakColor      = color.New(color.FgRed)
)

// GetColorLabel returns a colored fit label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score, scale float64) string {
	text := schema.GetPlainLabel(score, scale)

	switch text {
	case schema.ExcellentFit:
		return ExcellentColor.Sprint(text)
	case schema.StrongFit:
		return StrongColor.Sprint(text)
	case schema.FairFit:
		return FairColor.Sprint(text)
	default:
		return WeakColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDataDBFilePath returns the path to the SQLite DB file for the table store.
func GetDataDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".schoolfit_data.db"
	}
	return filepath.Join(homeDir, ".schoolfit_data.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." suffix and at least one character of content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
