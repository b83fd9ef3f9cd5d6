package duel

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ZocoMacc/PaperDuel/src/battle"
	"github.com/ZocoMacc/PaperDuel/src/model"
)

// Client is a thin typed wrapper over the duel HTTP API.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2)

	return &Client{http: httpClient}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type startRequest struct {
	Asset   string   `json:"asset"`
	UserIDs []string `json:"user_ids"`
}

// StartResponse mirrors the /battle/start payload.
type StartResponse struct {
	BattleID     string          `json:"battle_id"`
	Asset        string          `json:"asset"`
	TotalBars    int             `json:"total_bars"`
	InitialState battle.Snapshot `json:"initial_state"`
}

// TradeRequest mirrors the /battle/trade payload.
type TradeRequest struct {
	BattleID    string   `json:"battle_id"`
	UserID      string   `json:"user_id"`
	Action      string   `json:"action"`
	Size        int      `json:"size,omitempty"`
	StopLoss    *float64 `json:"sl,omitempty"`
	TakeProfit  *float64 `json:"tp,omitempty"`
	TradedAsset string   `json:"traded_asset,omitempty"`
}

func (c *Client) Login(username, password string) (*model.User, error) {
	var user model.User
	resp, err := c.http.R().
		SetBody(loginRequest{Username: username, Password: password}).
		SetResult(&user).
		Post("/login")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("login failed: %s: %s", resp.Status(), resp.String())
	}
	return &user, nil
}

func (c *Client) StartBattle(asset string, userIDs []string) (*StartResponse, error) {
	var result StartResponse
	resp, err := c.http.R().
		SetBody(startRequest{Asset: asset, UserIDs: userIDs}).
		SetResult(&result).
		Post("/battle/start")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("start battle failed: %s: %s", resp.Status(), resp.String())
	}
	return &result, nil
}

func (c *Client) Advance(battleID string) (*battle.Snapshot, error) {
	var snap battle.Snapshot
	resp, err := c.http.R().
		SetResult(&snap).
		Post("/battle/" + battleID + "/advance")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("advance failed: %s: %s", resp.Status(), resp.String())
	}
	return &snap, nil
}

func (c *Client) Trade(req TradeRequest) (*battle.OrderResult, error) {
	var result battle.OrderResult
	resp, err := c.http.R().
		SetBody(req).
		SetResult(&result).
		Post("/battle/trade")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("trade failed: %s: %s", resp.Status(), resp.String())
	}
	return &result, nil
}

func (c *Client) State(battleID string) (*battle.Snapshot, error) {
	var snap battle.Snapshot
	resp, err := c.http.R().
		SetResult(&snap).
		Get("/battle/" + battleID + "/state")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get state failed: %s: %s", resp.Status(), resp.String())
	}
	return &snap, nil
}
