package battle

// Direction of a held position. The numeric values participate directly
// in the P&L formula: points = (exit - entry) * direction.
type Direction int

const (
	Flat  Direction = 0
	Long  Direction = 1
	Short Direction = -1
)

// Position is the per-trader open-position record.
// Invariant: Direction == Flat exactly when Size == 0.
// Symbol is fixed for the lifetime of an open position; it only changes
// at the moment a new position is opened.
type Position struct {
	Direction  Direction `json:"direction"`
	EntryPrice float64   `json:"entry_price"`
	Size       int       `json:"size"`
	StopLoss   *float64  `json:"stop_loss,omitempty"`
	TakeProfit *float64  `json:"take_profit,omitempty"`
	Symbol     string    `json:"symbol,omitempty"`
}

func (p Position) Open() bool { return p.Direction != Flat }

// TraderState is the per-user mutable record owned by its Battle and
// mutated only through the Battle's order-execution and auto-exit logic.
type TraderState struct {
	UserID        string
	Equity        float64
	MaxEquitySeen float64
	Position      Position
	TradeCount    int
}

// resetPosition flattens the trader after a completed trade and counts
// the round turn.
func (t *TraderState) resetPosition() {
	t.Position = Position{}
	t.TradeCount++
}
