package portfolio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadHoldings(t *testing.T) {
	path := writeFile(t, "portfolio.csv", `Holder,Ticker,Qty,Avg_Price,Buy_Date
Selva,IDEA.NS,5,16.10,2024-09-10
Selva,GOLDBEES.NS,100,55.5,not-a-date
Anna,TCS.NS,2,3400.75,2025-06-01
Anna,BROKEN.NS,x,10,2025-06-01
`)
	holdings, err := LoadHoldings(path)
	require.NoError(t, err)
	require.Len(t, holdings, 3)

	assert.Equal(t, "IDEA.NS", holdings[0].Ticker)
	assert.Equal(t, "16.1", holdings[0].AveragePrice.String())
	assert.Equal(t, "not-a-date", holdings[1].BuyDate)

	selva := ForHolder(holdings, "Selva")
	assert.Len(t, selva, 2)
	assert.Empty(t, ForHolder(holdings, "Nobody"))
}

func TestLoadHoldings_Missing(t *testing.T) {
	_, err := LoadHoldings(filepath.Join(t.TempDir(), "absent.csv"))
	assert.True(t, errors.Is(err, ErrNoHoldings))

	empty := writeFile(t, "portfolio.csv", "Holder,Ticker,Qty,Avg_Price,Buy_Date\n")
	_, err = LoadHoldings(empty)
	assert.True(t, errors.Is(err, ErrNoHoldings))
}

func TestHolidays(t *testing.T) {
	path := writeFile(t, "holidays.csv", `Date,Message
2026-10-20,Happy Diwali!
2026-12-25,Merry Christmas
`)
	holidays, err := LoadHolidays(path)
	require.NoError(t, err)
	require.Len(t, holidays, 2)

	loc := time.FixedZone("IST", 19800)
	msg, ok := HolidayOn(holidays, time.Date(2026, 10, 20, 8, 0, 0, 0, loc))
	assert.True(t, ok)
	assert.Equal(t, "Happy Diwali!", msg)

	_, ok = HolidayOn(holidays, time.Date(2026, 10, 21, 8, 0, 0, 0, loc))
	assert.False(t, ok)

	_, err = LoadHolidays(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
