package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := NewCSV(dir)
	require.NoError(t, err)
	assert.NoError(t, j.Close())

	daily := readCSV(t, filepath.Join(dir, "daily.csv"))
	require.Len(t, daily, 1)
	assert.Equal(t, []string{"run_id", "date", "equity", "nmv", "loan", "margin_ratio", "core_value", "satellite_value", "dividend", "dividend_mtd", "dividend_ytd", "interest", "interest_mtd", "interest_ytd", "deposit"}, daily[0])

	events := readCSV(t, filepath.Join(dir, "margin_events.csv"))
	require.Len(t, events, 1)
	assert.Equal(t, []string{"run_id", "date", "kind", "ratio", "cash_needed", "sell_needed"}, events[0])

	picks := readCSV(t, filepath.Join(dir, "picks.csv"))
	require.Len(t, picks, 1)
	assert.Equal(t, []string{"run_id", "date", "ticker"}, picks[0])
}

func TestCSVJournalRecordDaily(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := NewCSV(dir)
	require.NoError(t, err)

	date := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordDaily(DailyRecord{
		RunID:          "R1",
		Date:           date,
		Equity:         1000.5,
		NMV:            3335,
		Loan:           2334.5,
		MarginRatio:    0.3,
		CoreValue:      2000,
		SatelliteValue: 1335,
		Dividend:       10.25,
		DividendMTD:    10.25,
		DividendYTD:    30.75,
		Interest:       0.5,
		InterestMTD:    1.5,
		InterestYTD:    9.5,
		Deposit:        0,
	}))
	assert.NoError(t, j.Close())

	rows := readCSV(t, filepath.Join(dir, "daily.csv"))
	require.Len(t, rows, 2)
	want := []string{
		"R1",
		date.Format(time.RFC3339),
		"1000.500000",
		"3335.000000",
		"2334.500000",
		"0.300000",
		"2000.000000",
		"1335.000000",
		"10.250000",
		"10.250000",
		"30.750000",
		"0.500000",
		"1.500000",
		"9.500000",
		"0.000000",
	}
	assert.Equal(t, want, rows[1])
}

func TestCSVJournalRecordRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := NewCSV(dir)
	require.NoError(t, err)

	rec := testRun("R1")
	require.NoError(t, j.RecordRun(rec))
	assert.NoError(t, j.Close())

	rows := readCSV(t, filepath.Join(dir, "runs.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "R1", rows[1][0])
	assert.Equal(t, "AAA,BBB", rows[1][2])
	assert.Equal(t, `{"coreFraction":0.4}`, rows[1][5])
	assert.Equal(t, "0.420000", rows[1][6])
	assert.Equal(t, "3", rows[1][14])
}

func TestCSVJournalRecordMarginEventAndPick(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := NewCSV(dir)
	require.NoError(t, err)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordMarginEvent(MarginEventRecord{
		RunID: "R1", Date: date, Kind: "buffer_breach", Ratio: 0.28,
	}))
	require.NoError(t, j.RecordPick(PickRecord{RunID: "R1", Date: date, Ticker: "BBB"}))
	assert.NoError(t, j.Close())

	events := readCSV(t, filepath.Join(dir, "margin_events.csv"))
	require.Len(t, events, 2)
	assert.Equal(t, "buffer_breach", events[1][2])

	picks := readCSV(t, filepath.Join(dir, "picks.csv"))
	require.Len(t, picks, 2)
	assert.Equal(t, "BBB", picks[1][2])
}
