package portfolio

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"stockbot/internal/model"
)

type holidayRow struct {
	Date    string `csv:"Date"`
	Message string `csv:"Message"`
}

// LoadHolidays reads the override calendar.
func LoadHolidays(path string) ([]model.Holiday, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open holidays: %w", err)
	}
	defer f.Close()

	var rows []*holidayRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parse holidays: %w", err)
	}
	out := make([]model.Holiday, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Holiday{Date: strings.TrimSpace(r.Date), Message: strings.TrimSpace(r.Message)})
	}
	return out, nil
}

// HolidayOn returns the first calendar message dated on day's calendar date.
func HolidayOn(holidays []model.Holiday, day time.Time) (string, bool) {
	key := day.Format("2006-01-02")
	for _, h := range holidays {
		if h.Date == key && h.Message != "" {
			return h.Message, true
		}
	}
	return "", false
}
