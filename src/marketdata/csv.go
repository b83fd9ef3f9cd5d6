package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"
)

// Timestamp layouts accepted in the ts_event column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// LoadCSV reads an OHLCV series from a CSV file with a header row
// containing at least ts_event, open, high, low, close, volume.
// Rows with a missing or non-numeric field are dropped, not surfaced
// as row-level errors.
func LoadCSV(symbol, path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	series, dropped, err := parseCSV(symbol, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	logger.WithFields(logger.Fields{
		"symbol":  symbol,
		"bars":    series.Len(),
		"dropped": dropped,
	}).Info("loaded bar series from CSV")

	return series, nil
}

func parseCSV(symbol string, r io.Reader) (*Series, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"ts_event", "open", "high", "low", "close", "volume"} {
		if _, ok := cols[required]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", required)
		}
	}

	var bars []Bar
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Ragged or unparseable line, treat like a malformed row.
			dropped++
			continue
		}

		bar, ok := parseRow(record, cols)
		if !ok {
			dropped++
			continue
		}
		bars = append(bars, bar)
	}

	return NewSeries(symbol, bars), dropped, nil
}

func parseRow(record []string, cols map[string]int) (Bar, bool) {
	field := func(name string) (string, bool) {
		i := cols[name]
		if i >= len(record) {
			return "", false
		}
		return record[i], true
	}

	ts, ok := field("ts_event")
	if !ok {
		return Bar{}, false
	}
	timestamp, ok := parseTimestamp(ts)
	if !ok {
		return Bar{}, false
	}

	values := make(map[string]float64, 5)
	for _, name := range []string{"open", "high", "low", "close", "volume"} {
		raw, ok := field(name)
		if !ok {
			return Bar{}, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Bar{}, false
		}
		values[name] = v
	}

	return Bar{
		Timestamp: timestamp,
		Open:      values["open"],
		High:      values["high"],
		Low:       values["low"],
		Close:     values["close"],
		Volume:    values["volume"],
	}, true
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
