package duel

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/ZocoMacc/PaperDuel/src/battle"
)

// Duel runs a scripted two-player session against a live server: log
// in, start a battle, open one position per side, then advance bars
// until a terminal status or the configured bar budget is spent.
type Duel struct {
	Log    *logger.Entry
	Config *Config
	client *Client
}

func (d *Duel) Start() error {
	if d.Config == nil {
		d.Config = GetConfig()
	}
	if d.client == nil {
		d.client = NewClient(d.Config.APIBaseURL)
	}

	user, err := d.client.Login(d.Config.Username, d.Config.Password)
	if err != nil {
		return err
	}
	d.Log.WithField("user_id", user.ID).Info("logged in")

	started, err := d.client.StartBattle(d.Config.Asset, []string{user.ID, d.Config.Opponent})
	if err != nil {
		return err
	}
	d.Log.WithFields(logger.Fields{
		"battle_id":  started.BattleID,
		"asset":      started.Asset,
		"total_bars": started.TotalBars,
	}).Info("battle started")

	if _, err := d.client.Trade(TradeRequest{
		BattleID: started.BattleID,
		UserID:   user.ID,
		Action:   string(battle.ActionBuy),
		Size:     d.Config.Size,
	}); err != nil {
		return err
	}
	if _, err := d.client.Trade(TradeRequest{
		BattleID: started.BattleID,
		UserID:   d.Config.Opponent,
		Action:   string(battle.ActionSell),
		Size:     d.Config.Size,
	}); err != nil {
		return err
	}

	var snap *battle.Snapshot
	for i := 0; i < d.Config.Bars; i++ {
		snap, err = d.client.Advance(started.BattleID)
		if err != nil {
			return err
		}

		for _, exit := range snap.ExitEvents {
			d.Log.WithField("user_id", exit.UserID).Info(exit.Message)
		}

		if snap.Status != battle.StatusRunning {
			break
		}
	}

	if snap == nil {
		return fmt.Errorf("no bars advanced")
	}

	d.Log.WithField("status", snap.Status).Info("duel finished")
	for _, trader := range snap.Traders {
		d.Log.WithFields(logger.Fields{
			"user_id":  trader.UserID,
			"equity":   trader.Equity,
			"position": trader.PositionSymbol,
			"unrl_pnl": trader.UnrealizedPnL,
		}).Info("final trader state")
	}

	return nil
}
