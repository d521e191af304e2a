package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var errEmpty = errors.New("value is empty")

// ParseInt reads an integer cell. Spreadsheet numbers may arrive as "1001",
// "1001.0" or "1.001E+3"; fractions are truncated toward zero.
func ParseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmpty
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.New("not a number")
	}

	n := d.IntPart()
	if !decimal.NewFromInt(n).Equal(d.Truncate(0)) {
		return 0, errors.New("number out of range")
	}
	return n, nil
}

// dateLayouts are the textual date forms accepted for Date of Order.
// Slash forms are day first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
}

// ParseDate reads a Date of Order cell: an Excel serial date or one of
// dateLayouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmpty
	}

	if d, err := decimal.NewFromString(s); err == nil {
		serial, _ := d.Float64()
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid serial date: %w", err)
		}
		return calendarDay(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDay(t), nil
		}
	}
	return time.Time{}, errors.New("unrecognised date format")
}

// calendarDay drops the time of day; an order date is a calendar date.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
