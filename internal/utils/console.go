package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// SuccessColor for successful operations
	SuccessColor = color.New(color.FgGreen, color.Bold)

	// ErrorColor for error messages
	ErrorColor = color.New(color.FgRed, color.Bold)

	// WarningColor for warnings
	WarningColor = color.New(color.FgYellow, color.Bold)

	// InfoColor for informational lines
	InfoColor = color.New(color.FgCyan)

	// TitleColor for headers
	TitleColor = color.New(color.FgMagenta, color.Bold)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	SuccessColor.Printf("✅ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	ErrorColor.Printf("❌ "+format+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	WarningColor.Printf("⚠️  "+format+"\n", args...)
}

// PrintInfo prints an informational message
func PrintInfo(format string, args ...interface{}) {
	InfoColor.Printf(format+"\n", args...)
}

// PrintTitle prints a section title
func PrintTitle(format string, args ...interface{}) {
	TitleColor.Printf("🏠 "+format+"\n", args...)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Fprintln(color.Output, strings.Repeat("─", 80))
}

var usdPrinter = message.NewPrinter(language.English)

// FormatUSD formats an amount as whole dollars with thousands separators
func FormatUSD(amount float64) string {
	dollars := int64(math.Round(amount))
	if dollars < 0 {
		return usdPrinter.Sprintf("-$%d", -dollars)
	}
	return usdPrinter.Sprintf("$%d", dollars)
}
