package battle

import "time"

// Snapshot is the read-only projection of battle state returned to
// callers. It is built fresh under the battle lock on every call; the
// Battle itself is the sole source of truth for its own status, the
// snapshot never carries overrides.
type Snapshot struct {
	BattleID      string             `json:"battle_id"`
	PrimarySymbol string             `json:"primary_symbol"`
	Status        Status             `json:"status"`
	LoserUserID   string             `json:"loser_user_id,omitempty"`
	CurrentIndex  int                `json:"current_index"`
	TotalBars     int                `json:"total_bars"`
	Bar           BarData            `json:"bar_data"`
	Traders       []TraderSummary    `json:"traders"`
	ExitEvents    []ExitNotification `json:"exit_notifications,omitempty"`
}

// BarData reports the current bar timestamp plus the close of every
// loaded asset at the shared cursor.
type BarData struct {
	Timestamp time.Time          `json:"timestamp"`
	Closes    map[string]float64 `json:"closes"`
}

// TraderSummary is one participant's view inside a Snapshot.
// PositionSymbol reads "FLAT" when no position is open.
type TraderSummary struct {
	UserID          string    `json:"user_id"`
	Equity          float64   `json:"equity"`
	MaxEquitySeen   float64   `json:"max_equity_seen"`
	PositionSymbol  string    `json:"position_asset"`
	Direction       Direction `json:"position_direction"`
	Size            int       `json:"position_size"`
	EntryPrice      float64   `json:"entry_price"`
	StopLoss        *float64  `json:"sl_level,omitempty"`
	TakeProfit      *float64  `json:"tp_level,omitempty"`
	UnrealizedPnL   float64   `json:"unrealized_pnl_usd"`
	TradesRemaining int       `json:"trades_remaining"`
}

// snapshotLocked builds the projection. Caller holds b.mu.
func (b *Battle) snapshotLocked() Snapshot {
	closes := make(map[string]float64, len(b.series))
	for symbol, series := range b.series {
		closes[symbol] = series.At(b.currentIndex).Close
	}

	snap := Snapshot{
		BattleID:      b.id,
		PrimarySymbol: b.primarySymbol,
		Status:        b.status,
		LoserUserID:   b.loserID,
		CurrentIndex:  b.currentIndex,
		TotalBars:     b.totalBars,
		Bar: BarData{
			Timestamp: b.series[b.primarySymbol].At(b.currentIndex).Timestamp,
			Closes:    closes,
		},
		Traders:    make([]TraderSummary, 0, len(b.traderOrder)),
		ExitEvents: append([]ExitNotification(nil), b.lastExits...),
	}

	for _, userID := range b.traderOrder {
		snap.Traders = append(snap.Traders, b.traderSummaryLocked(b.traders[userID]))
	}

	return snap
}

func (b *Battle) traderSummaryLocked(trader *TraderState) TraderSummary {
	summary := TraderSummary{
		UserID:          trader.UserID,
		Equity:          trader.Equity,
		MaxEquitySeen:   trader.MaxEquitySeen,
		PositionSymbol:  "FLAT",
		TradesRemaining: b.settings.MaxTradesPerTrader - trader.TradeCount,
	}

	pos := trader.Position
	if !pos.Open() {
		return summary
	}

	summary.PositionSymbol = pos.Symbol
	summary.Direction = pos.Direction
	summary.Size = pos.Size
	summary.EntryPrice = pos.EntryPrice
	summary.StopLoss = pos.StopLoss
	summary.TakeProfit = pos.TakeProfit

	// Unrealized P&L marks the open position to the current bar's close
	// of the held symbol, commission not yet charged.
	rules := b.rules[pos.Symbol]
	bar := b.series[pos.Symbol].At(b.currentIndex)
	points := (bar.Close - pos.EntryPrice) * float64(pos.Direction)
	summary.UnrealizedPnL = points * rules.Multiplier * float64(pos.Size)

	return summary
}
