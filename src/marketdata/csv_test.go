package marketdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVDropsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"ts_event,open,high,low,close,volume",
		"2024-03-01 09:30:00,4500.25,4501.00,4499.50,4500.75,1200",
		"2024-03-01 09:31:00,not-a-number,4502.00,4500.00,4501.50,900",
		"2024-03-01 09:32:00,4501.50,4503.25,,4502.00,800",
		"garbage-timestamp,4502.00,4503.00,4501.00,4502.50,700",
		"2024-03-01 09:34:00,4502.50,4504.00,4502.00,4503.75,1100",
	}, "\n")

	series, dropped, err := parseCSV("ES", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, series.Len())
	assert.Equal(t, 3, dropped)

	first := series.At(0)
	assert.Equal(t, 4500.25, first.Open)
	assert.Equal(t, 4500.75, first.Close)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), first.Timestamp)

	last := series.At(series.Len() - 1)
	assert.Equal(t, 4503.75, last.Close)
}

func TestParseCSVMissingColumn(t *testing.T) {
	input := "ts_event,open,high,low,close\n2024-03-01 09:30:00,1,2,0.5,1.5\n"

	_, _, err := parseCSV("ES", strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for missing volume column")
	}
}

func TestParseCSVExtraColumnsIgnored(t *testing.T) {
	input := strings.Join([]string{
		"rtype,ts_event,open,high,low,close,volume,symbol",
		"33,2024-03-01T09:30:00Z,4500,4501,4499,4500.5,1000,ESH4",
	}, "\n")

	series, dropped, err := parseCSV("ES", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
	assert.Equal(t, 0, dropped)
	assert.Equal(t, 4500.5, series.At(0).Close)
}

func TestFileProviderCachesSeries(t *testing.T) {
	dir := t.TempDir()
	csv := "ts_event,open,high,low,close,volume\n" +
		"2024-03-01 09:30:00,4500,4501,4499,4500,1000\n" +
		"2024-03-01 09:31:00,4500,4502,4498,4501,1000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "es_minute.csv"), []byte(csv), 0o644))

	provider := NewFileProvider(Config{DataDir: dir, SlippageTicks: 0.5, CommissionPerSide: 1.25})

	s1, err := provider.Load("ES")
	require.NoError(t, err)
	assert.Equal(t, 2, s1.Len())

	s2, err := provider.Load("ES")
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	_, err = provider.Load("CL")
	require.ErrorIs(t, err, ErrUnknownSymbol)
}
