package marketdata

import "time"

// Bar is one OHLCV sample for a fixed time interval.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Series is an immutable, time-ordered table of bars for one symbol,
// random-accessible by a dense 0-based index. Battles hold a read
// reference plus an index; they never mutate the series.
type Series struct {
	symbol string
	bars   []Bar
}

func NewSeries(symbol string, bars []Bar) *Series {
	return &Series{symbol: symbol, bars: bars}
}

func (s *Series) Symbol() string { return s.symbol }

func (s *Series) Len() int { return len(s.bars) }

// At returns the bar at index i. The index must be in [0, Len()).
func (s *Series) At(i int) Bar { return s.bars[i] }
