package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ZocoMacc/PaperDuel/src/marketdata"
	"github.com/ZocoMacc/PaperDuel/src/utils"
)

// OHLCVBar is one persisted minute bar. Prices are stored as decimals;
// the engine converts to float64 bars at load time.
type OHLCVBar struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Symbol   string          `gorm:"size:16;uniqueIndex:idx_bar_symbol_datetime" json:"symbol"`
	Datetime time.Time       `gorm:"uniqueIndex:idx_bar_symbol_datetime" json:"datetime"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	Volume   decimal.Decimal `json:"volume"`
}

// TableName controls the exact table name for bars.
func (OHLCVBar) TableName() string {
	return "ohlcv_bars"
}

// Normalize snaps the bar timestamp onto its minute boundary before it
// is written, so the (symbol, datetime) unique index deduplicates
// re-ingested data.
func (o *OHLCVBar) Normalize() {
	o.Datetime = utils.ResetTime(o.Datetime, "minute")
}

func (o *OHLCVBar) ToBar() marketdata.Bar {
	return marketdata.Bar{
		Timestamp: o.Datetime,
		Open:      o.Open.InexactFloat64(),
		High:      o.High.InexactFloat64(),
		Low:       o.Low.InexactFloat64(),
		Close:     o.Close.InexactFloat64(),
		Volume:    o.Volume.InexactFloat64(),
	}
}
