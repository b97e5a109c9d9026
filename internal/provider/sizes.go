package provider

import (
	"fmt"
	"strconv"
	"strings"
)

// BytesToHuman converts a raw byte count to a human readable label using
// binary (1024) thresholds and two-decimal formatting. Negative input means
// the size was not reported and yields "unknown".
func BytesToHuman(bytes int64) string {
	if bytes < 0 {
		return SizeUnknown
	}
	const unit = 1024
	switch {
	case bytes < unit:
		return fmt.Sprintf("%d B", bytes)
	case bytes < unit*unit:
		return fmt.Sprintf("%.2f KB", float64(bytes)/unit)
	case bytes < unit*unit*unit:
		return fmt.Sprintf("%.2f MB", float64(bytes)/(unit*unit))
	default:
		return fmt.Sprintf("%.2f GB", float64(bytes)/(unit*unit*unit))
	}
}

// NormalizeSizeUnit re-parses a "<value> <unit>" label and promotes KB to MB
// or MB to GB when the value reaches 1000 in that unit. Promotion is decimal
// (1000) even though the initial conversion is binary (1024); downstream
// consumers depend on that exact output, so keep the asymmetry.
// Labels that do not parse are returned unchanged.
func NormalizeSizeUnit(label string) string {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) != 2 {
		return label
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return label
	}

	unit := strings.ToUpper(fields[1])
	if value >= 1000 {
		switch unit {
		case "KB":
			return fmt.Sprintf("%.2f MB", value/1000)
		case "MB":
			return fmt.Sprintf("%.2f GB", value/1000)
		}
	}

	switch unit {
	case "B":
		return fmt.Sprintf("%d B", int64(value))
	case "KB", "MB", "GB":
		return fmt.Sprintf("%.2f %s", value, unit)
	default:
		return label
	}
}
