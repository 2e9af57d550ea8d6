package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// monthNumbers maps three-letter month abbreviations to their number.
// Full month names resolve through the same table via prefix lookup.
var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4,
	"may": 5, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var (
	dayMonthYearRegex = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+),?\s+(\d{4})$`)
	isoDateRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateRangeSplitter = regexp.MustCompile(`\s*(?:–|-|\bto\b)\s*`)
)

// NormalizeDate converts a free-text date fragment into an ISO
// YYYY-MM-DD string. Unparseable or placeholder input ("TBA", "-")
// yields nil; callers treat nil as unknown, never as an error.
func NormalizeDate(text string) *string {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "tba") || text == "-" {
		return nil
	}

	if matches := dayMonthYearRegex.FindStringSubmatch(text); matches != nil {
		day, _ := strconv.Atoi(matches[1])
		monthKey := strings.ToLower(matches[2])
		if len(monthKey) > 3 {
			monthKey = monthKey[:3]
		}
		month, known := monthNumbers[monthKey]
		if known && day >= 1 && day <= 31 {
			iso := fmt.Sprintf("%s-%02d-%02d", matches[3], month, day)
			return &iso
		}
		return nil
	}

	if isoDateRegex.MatchString(text) {
		return &text
	}

	return nil
}

// SplitDateRange splits a combined cell like "12 Nov - 14 Nov, 2024"
// into its open and close parts. A cell holding a single date is
// returned as both open and close.
func SplitDateRange(text string) (string, string) {
	parts := dateRangeSplitter.Split(strings.TrimSpace(text), 2)
	openText := strings.TrimSpace(parts[0])
	closeText := openText
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		closeText = strings.TrimSpace(parts[1])
	}
	return openText, closeText
}
