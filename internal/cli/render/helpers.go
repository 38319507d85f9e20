package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	successStyle = color.New(color.FgGreen)
	failedStyle  = color.New(color.FgRed)
	pendingStyle = color.New(color.FgYellow)
	faintStyle   = color.New(color.Faint)
	headerStyle  = color.New(color.FgCyan, color.Bold)
	moduleStyle  = color.New(color.FgMagenta, color.Bold)
	futureStyle  = color.New(color.FgCyan)
	addressStyle = color.New(color.FgWhite)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatStatus renders a future status as a colored, title-cased word
func FormatStatus(status models.FutureStatus) string {
	label := cases.Title(language.English).String(strings.ToLower(string(status)))
	switch status {
	case models.FutureStatusSuccess:
		return successStyle.Sprint(label)
	case models.FutureStatusFailed:
		return failedStyle.Sprint(label)
	default:
		return pendingStyle.Sprint(label)
	}
}

// splitFutureID separates "Module#Contract" into its parts
func splitFutureID(futureID string) (string, string) {
	if i := strings.Index(futureID, "#"); i >= 0 {
		return futureID[:i], futureID[i+1:]
	}
	return "", futureID
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	if strings.HasSuffix(word, "ch") || strings.HasSuffix(word, "s") {
		return fmt.Sprintf("%d %ses", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
