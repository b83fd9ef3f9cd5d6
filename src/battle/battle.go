package battle

import (
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/ZocoMacc/PaperDuel/src/marketdata"
)

// Status of a battle session. Transitions are one-way: once a battle
// leaves StatusRunning it stays in its terminal state and no call
// mutates trader state or the cursor again.
type Status string

const (
	StatusRunning            Status = "RUNNING"
	StatusEndedDataExhausted Status = "ENDED_DATA_EXHAUSTED"
	StatusLostMaxDrawdown    Status = "LOST_MAX_DRAWDOWN"
)

// Action is a trade instruction from a participant.
type Action string

const (
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionClose Action = "CLOSE"
)

// Settings are the battle-wide rules applied to every participant.
type Settings struct {
	InitialEquity       float64
	MaxDrawdownFraction float64
	MaxTradesPerTrader  int
}

func DefaultSettings() Settings {
	return Settings{
		InitialEquity:       100000.0,
		MaxDrawdownFraction: 0.05,
		MaxTradesPerTrader:  100,
	}
}

// OrderRequest carries one trade instruction. Size, StopLoss and
// TakeProfit only apply to entries; TradedSymbol defaults to the
// battle's primary symbol when empty.
type OrderRequest struct {
	UserID       string   `json:"user_id"`
	Action       Action   `json:"action"`
	Size         int      `json:"size,omitempty"`
	StopLoss     *float64 `json:"sl,omitempty"`
	TakeProfit   *float64 `json:"tp,omitempty"`
	TradedSymbol string   `json:"traded_asset,omitempty"`
}

// OrderResult reports a successful fill.
type OrderResult struct {
	Action     Action    `json:"action"`
	Result     string    `json:"result"`
	EntryPrice float64   `json:"entry_price,omitempty"`
	Direction  Direction `json:"direction,omitempty"`
	Size       int       `json:"size,omitempty"`
	PnL        float64   `json:"pnl_usd,omitempty"`
	NewEquity  float64   `json:"new_equity,omitempty"`
}

const (
	ResultExecuted = "Executed"
	ResultClosed   = "Closed"
)

// ExitReason for an automatic position exit during Advance.
type ExitReason string

const (
	ExitStopLoss   ExitReason = "STOP_LOSS"
	ExitTakeProfit ExitReason = "TAKE_PROFIT"
)

// ExitNotification describes one auto-fill produced by an Advance call.
// All notifications from the most recent Advance are retained until the
// next one.
type ExitNotification struct {
	UserID    string     `json:"user_id"`
	Symbol    string     `json:"symbol"`
	Reason    ExitReason `json:"reason"`
	FillPrice float64    `json:"fill_price"`
	PnL       float64    `json:"pnl_usd"`
	Message   string     `json:"message"`
}

// Battle owns all session state for one duel: the shared time cursor
// over the loaded bar series, every participant's TraderState, and the
// battle-wide rules. All mutation happens under a single lock so that
// concurrent orders, or an order racing an advance, can never observe a
// torn state. Different battles share nothing and run concurrently.
type Battle struct {
	mu sync.Mutex

	id            string
	primarySymbol string
	symbols       []string
	series        map[string]*marketdata.Series
	rules         map[string]*marketdata.AssetRules

	currentIndex int
	totalBars    int

	traders     map[string]*TraderState
	traderOrder []string

	settings Settings

	status    Status
	loserID   string
	lastExits []ExitNotification
}

// NewBattle loads the series and rules for every supported symbol
// (participants may switch assets before opening a position) and
// initializes one TraderState per user at bar index 0.
func NewBattle(id string, provider marketdata.Provider, primarySymbol string, symbols []string, userIDs []string, settings Settings) (*Battle, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("%w: battle needs at least one participant", ErrDataUnavailable)
	}

	b := &Battle{
		id:            id,
		primarySymbol: primarySymbol,
		symbols:       append([]string(nil), symbols...),
		series:        make(map[string]*marketdata.Series, len(symbols)),
		rules:         make(map[string]*marketdata.AssetRules, len(symbols)),
		traders:       make(map[string]*TraderState, len(userIDs)),
		settings:      settings,
		status:        StatusRunning,
	}

	for _, symbol := range symbols {
		series, err := provider.Load(symbol)
		if err != nil {
			return nil, fmt.Errorf("%w: load %s: %v", ErrDataUnavailable, symbol, err)
		}
		rules, err := provider.Rules(symbol)
		if err != nil {
			return nil, fmt.Errorf("%w: rules %s: %v", ErrDataUnavailable, symbol, err)
		}
		b.series[symbol] = series
		b.rules[symbol] = rules
	}

	primary, ok := b.series[primarySymbol]
	if !ok {
		return nil, fmt.Errorf("%w: primary symbol %s not loaded", ErrDataUnavailable, primarySymbol)
	}
	if primary.Len() == 0 {
		return nil, fmt.Errorf("%w: empty series for %s", ErrDataUnavailable, primarySymbol)
	}
	b.totalBars = primary.Len()

	// Bars are assumed pre-synchronized by timestamp; the engine only
	// checks that every series covers the primary's index range.
	for symbol, series := range b.series {
		if series.Len() < b.totalBars {
			return nil, fmt.Errorf("%w: series %s shorter than primary (%d < %d)",
				ErrDataUnavailable, symbol, series.Len(), b.totalBars)
		}
	}

	for _, userID := range userIDs {
		if _, dup := b.traders[userID]; dup {
			return nil, fmt.Errorf("%w: duplicate user id %s", ErrDataUnavailable, userID)
		}
		b.traders[userID] = &TraderState{
			UserID:        userID,
			Equity:        settings.InitialEquity,
			MaxEquitySeen: settings.InitialEquity,
		}
		b.traderOrder = append(b.traderOrder, userID)
	}

	return b, nil
}

func (b *Battle) ID() string { return b.id }

// TotalBars is fixed at creation, safe to read without the lock.
func (b *Battle) TotalBars() int { return b.totalBars }

func (b *Battle) PrimarySymbol() string { return b.primarySymbol }

// Advance moves the shared cursor one bar forward, fills pending
// stop/target exits against the new bar, and enforces the trailing
// drawdown rule. Called once per external "next bar" request.
func (b *Battle) Advance() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status != StatusRunning {
		return b.snapshotLocked()
	}

	b.lastExits = nil

	if b.currentIndex+1 >= b.totalBars {
		b.status = StatusEndedDataExhausted
		logger.WithField("battle_id", b.id).Info("battle ended: data exhausted")
		return b.snapshotLocked()
	}

	b.currentIndex++

	for _, userID := range b.traderOrder {
		b.checkAutoExit(b.traders[userID])
	}

	for _, userID := range b.traderOrder {
		trader := b.traders[userID]
		if trader.Equity > trader.MaxEquitySeen {
			trader.MaxEquitySeen = trader.Equity
		}
		if b.breachesDrawdown(trader) {
			b.status = StatusLostMaxDrawdown
			b.loserID = userID
			logger.WithFields(logger.Fields{
				"battle_id": b.id,
				"user_id":   userID,
				"equity":    trader.Equity,
				"peak":      trader.MaxEquitySeen,
			}).Info("battle ended: max drawdown breached")
			return b.snapshotLocked()
		}
	}

	return b.snapshotLocked()
}

// checkAutoExit evaluates stop/target levels against the current bar of
// the symbol the trader's position is held in. Stop-loss wins the
// tie-break when a single bar's range satisfies both levels. Auto-exits
// fill at the exact stop/target price with no additional slippage.
func (b *Battle) checkAutoExit(trader *TraderState) {
	pos := trader.Position
	if !pos.Open() || (pos.StopLoss == nil && pos.TakeProfit == nil) {
		return
	}

	bar := b.series[pos.Symbol].At(b.currentIndex)

	var (
		triggered bool
		exitPrice float64
		reason    ExitReason
	)

	switch pos.Direction {
	case Long:
		if pos.StopLoss != nil && bar.Low <= *pos.StopLoss {
			triggered, exitPrice, reason = true, *pos.StopLoss, ExitStopLoss
		} else if pos.TakeProfit != nil && bar.High >= *pos.TakeProfit {
			triggered, exitPrice, reason = true, *pos.TakeProfit, ExitTakeProfit
		}
	case Short:
		if pos.StopLoss != nil && bar.High >= *pos.StopLoss {
			triggered, exitPrice, reason = true, *pos.StopLoss, ExitStopLoss
		} else if pos.TakeProfit != nil && bar.Low <= *pos.TakeProfit {
			triggered, exitPrice, reason = true, *pos.TakeProfit, ExitTakeProfit
		}
	}

	if !triggered {
		return
	}

	pnl := b.realizedPnL(trader, exitPrice)
	trader.Equity += pnl
	trader.resetPosition()

	b.lastExits = append(b.lastExits, ExitNotification{
		UserID:    trader.UserID,
		Symbol:    pos.Symbol,
		Reason:    reason,
		FillPrice: exitPrice,
		PnL:       pnl,
		Message:   fmt.Sprintf("AUTO-FILLED: %s hit at %.2f. Realized PnL: $%.2f", reason, exitPrice, pnl),
	})
}

// realizedPnL computes the net USD result of closing the trader's open
// position at exitPrice, using the rules of the symbol the position is
// actually held in.
func (b *Battle) realizedPnL(trader *TraderState, exitPrice float64) float64 {
	pos := trader.Position
	rules := b.rules[pos.Symbol]
	points := (exitPrice - pos.EntryPrice) * float64(pos.Direction)
	gross := points * rules.Multiplier * float64(pos.Size)
	return gross - rules.CommissionRoundTurn*float64(pos.Size)
}

func (b *Battle) breachesDrawdown(trader *TraderState) bool {
	limit := trader.MaxEquitySeen * (1 - b.settings.MaxDrawdownFraction)
	return trader.Equity < limit
}

// Order validates and executes a trade instruction for one participant.
// Orders always fill on the next bar's open, so at least one future bar
// must exist. Validation happens fully before any field is written: a
// rejected order leaves the battle untouched.
func (b *Battle) Order(req OrderRequest) (OrderResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status != StatusRunning {
		return OrderResult{}, fmt.Errorf("%w: status %s", ErrBattleFinished, b.status)
	}

	trader, ok := b.traders[req.UserID]
	if !ok {
		return OrderResult{}, fmt.Errorf("%w: %s", ErrUnknownUser, req.UserID)
	}

	if b.currentIndex+1 >= b.totalBars {
		return OrderResult{}, ErrEndOfData
	}

	symbol := req.TradedSymbol
	if symbol == "" {
		symbol = b.primarySymbol
	}
	series, ok := b.series[symbol]
	if !ok {
		return OrderResult{}, fmt.Errorf("%w: %s", marketdata.ErrUnknownSymbol, symbol)
	}

	basePrice := series.At(b.currentIndex + 1).Open
	slippage := b.rules[symbol].SlippagePoints

	switch {
	case req.Action == ActionClose && trader.Position.Open():
		return b.closePosition(trader, symbol, basePrice, slippage)
	case (req.Action == ActionBuy || req.Action == ActionSell) && !trader.Position.Open():
		return b.openPosition(trader, req, symbol, basePrice, slippage)
	default:
		return OrderResult{}, fmt.Errorf("%w: %s while %s", ErrInvalidOrderState,
			req.Action, positionStateLabel(trader.Position))
	}
}

func positionStateLabel(pos Position) string {
	if pos.Open() {
		return "in position"
	}
	return "flat"
}

// closePosition fills a manual exit at the next bar's open, slippage
// applied against the trader.
func (b *Battle) closePosition(trader *TraderState, symbol string, basePrice, slippage float64) (OrderResult, error) {
	if symbol != trader.Position.Symbol {
		return OrderResult{}, fmt.Errorf("%w: cannot close %s, position is open in %s",
			ErrAssetMismatch, symbol, trader.Position.Symbol)
	}

	exitPrice := basePrice - slippage
	if trader.Position.Direction == Short {
		exitPrice = basePrice + slippage
	}

	pnl := b.realizedPnL(trader, exitPrice)
	trader.Equity += pnl
	trader.resetPosition()

	logger.WithFields(logger.Fields{
		"battle_id": b.id,
		"user_id":   trader.UserID,
		"symbol":    symbol,
		"pnl_usd":   pnl,
	}).Debug("position closed")

	return OrderResult{
		Action:    ActionClose,
		Result:    ResultClosed,
		PnL:       pnl,
		NewEquity: trader.Equity,
	}, nil
}

// openPosition fills an entry at the next bar's open, slippage applied
// in the direction of cost, after validating size, trade count, and
// stop/target placement against the computed entry price.
func (b *Battle) openPosition(trader *TraderState, req OrderRequest, symbol string, basePrice, slippage float64) (OrderResult, error) {
	if req.Size <= 0 {
		return OrderResult{}, ErrInvalidSize
	}
	if trader.TradeCount >= b.settings.MaxTradesPerTrader {
		return OrderResult{}, ErrTradeLimitReached
	}

	direction := Long
	if req.Action == ActionSell {
		direction = Short
	}

	entryPrice := basePrice + slippage
	if direction == Short {
		entryPrice = basePrice - slippage
	}

	if err := validateStopTarget(direction, entryPrice, req.StopLoss, req.TakeProfit); err != nil {
		return OrderResult{}, err
	}

	trader.Position = Position{
		Direction:  direction,
		EntryPrice: entryPrice,
		Size:       req.Size,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Symbol:     symbol,
	}

	logger.WithFields(logger.Fields{
		"battle_id": b.id,
		"user_id":   trader.UserID,
		"symbol":    symbol,
		"direction": direction,
		"size":      req.Size,
		"entry":     entryPrice,
	}).Debug("position opened")

	return OrderResult{
		Action:     req.Action,
		Result:     ResultExecuted,
		EntryPrice: entryPrice,
		Direction:  direction,
		Size:       req.Size,
	}, nil
}

// validateStopTarget rejects stops and targets on the wrong side of the
// computed entry: a long needs its stop strictly below entry and its
// target strictly above, a short the reverse.
func validateStopTarget(direction Direction, entryPrice float64, stopLoss, takeProfit *float64) error {
	if stopLoss != nil {
		if direction == Long && *stopLoss >= entryPrice {
			return fmt.Errorf("%w: stop %.2f not below entry %.2f", ErrInvalidStopTarget, *stopLoss, entryPrice)
		}
		if direction == Short && *stopLoss <= entryPrice {
			return fmt.Errorf("%w: stop %.2f not above entry %.2f", ErrInvalidStopTarget, *stopLoss, entryPrice)
		}
	}
	if takeProfit != nil {
		if direction == Long && *takeProfit <= entryPrice {
			return fmt.Errorf("%w: target %.2f not above entry %.2f", ErrInvalidStopTarget, *takeProfit, entryPrice)
		}
		if direction == Short && *takeProfit >= entryPrice {
			return fmt.Errorf("%w: target %.2f not below entry %.2f", ErrInvalidStopTarget, *takeProfit, entryPrice)
		}
	}
	return nil
}

// State returns a fresh read-only projection of the battle. Unrealized
// P&L is recomputed on every call, never persisted.
func (b *Battle) State() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}
