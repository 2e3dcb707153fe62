package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts seen across statement exports, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01/02/06",
	"01-02-06",
	"02/01/2006",
	"01-02-2006",
}

// Partial layouts carry no year; the statement year fills it in.
var partialDateLayouts = []string{
	"01/02",
	"01-02",
}

// Models sometimes echo trailing noise after the date ("04/24/25 1").
// Keep just the leading date token.
var reDateToken = regexp.MustCompile(`^(\d{1,4}[-/]\d{1,2}(?:[-/]\d{2,4})?)`)

// parseDate parses a free-form date string into a calendar date (UTC,
// midnight). Dates without a year are resolved against statementYear.
func parseDate(raw string, statementYear int) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if m := reDateToken.FindString(s); m != "" {
		s = m
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	for _, layout := range partialDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(statementYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}
