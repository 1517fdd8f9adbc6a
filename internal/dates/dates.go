// Package dates converts clinic record dates between the display format
// (DD/MM/YYYY) and the storage format (YYYY-MM-DD).
//
// Conversion is done by splitting the string, never by parsing it as a
// timestamp: interpreting a bare date as a timestamp shifts it by one day
// near UTC offset boundaries.
package dates

import (
	"regexp"
	"strings"
)

const (
	// DisplayPlaceholder is rendered for missing or unparseable dates.
	DisplayPlaceholder = "-"
)

var displayPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// ToDisplay converts a stored date into DD/MM/YYYY.
// Input already in display format is returned unchanged. A time component
// ("2024-03-05T10:00:00" or "2024-03-05 10:00:00") is ignored.
// Empty or unrecognized input yields DisplayPlaceholder.
func ToDisplay(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return DisplayPlaceholder
	}
	if displayPattern.MatchString(value) {
		return value
	}
	if year, month, day, ok := splitStored(value); ok {
		return day + "/" + month + "/" + year
	}
	return DisplayPlaceholder
}

// ToStorage converts a date into YYYY-MM-DD for persistence and for date
// input widgets. Input already in storage format (with or without a time
// component) has the time component stripped. Empty or unrecognized input
// yields the empty string; display-formatted dates never reach the backend.
func ToStorage(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if displayPattern.MatchString(value) {
		parts := strings.Split(value, "/")
		return parts[2] + "-" + parts[1] + "-" + parts[0]
	}
	if year, month, day, ok := splitStored(value); ok {
		return year + "-" + month + "-" + day
	}
	return ""
}

// splitStored breaks a YYYY-MM-DD value, tolerating a trailing time
// component separated by "T" or a space.
func splitStored(value string) (year, month, day string, ok bool) {
	datePart := value
	if i := strings.IndexAny(datePart, "T "); i >= 0 {
		datePart = datePart[:i]
	}
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return "", "", "", false
	}
	for _, p := range parts {
		for _, r := range p {
			if r < '0' || r > '9' {
				return "", "", "", false
			}
		}
	}
	return parts[0], parts[1], parts[2], true
}
