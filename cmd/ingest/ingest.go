package ingest

import (
	"context"
	"net/http"
	"time"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ZocoMacc/PaperDuel/src/model"
	"github.com/ZocoMacc/PaperDuel/src/repository"
)

// Ingest downloads minute klines from Binance and upserts them into the
// bar store under a configurable engine symbol. It exists to back duels
// with fresh data when no CSV futures dump is at hand.
type Ingest struct {
	Log      *logger.Entry
	DB       *gorm.DB
	Config   *Config
	exchange goex.API
}

func (i *Ingest) Start() error {
	if i.Config == nil {
		i.Config = GetConfig()
	}
	if i.exchange == nil {
		i.exchange = i.newBinanceInstance()
	}

	return i.fetchAndStore()
}

func (*Ingest) newBinanceInstance() *binance.Binance {
	apiConfig := &goex.APIConfig{
		HttpClient: http.DefaultClient,
		Endpoint:   binance.GLOBAL_API_BASE_URL,
	}
	return binance.NewWithConfig(apiConfig)
}

func (i *Ingest) fetchAndStore() error {
	series, err := i.fetchKlines()
	if err != nil {
		return err
	}

	repo := repository.NewBarRepositoryWithDB(i.DB)

	for idx := range series {
		kline := series[idx]

		bar := &model.OHLCVBar{
			Symbol:   i.Config.StoreSymbol,
			Datetime: time.Unix(kline.Timestamp, 0).UTC(),
			Open:     decimal.NewFromFloat(kline.Open),
			High:     decimal.NewFromFloat(kline.High),
			Low:      decimal.NewFromFloat(kline.Low),
			Close:    decimal.NewFromFloat(kline.Close),
			Volume:   decimal.NewFromFloat(kline.Vol),
		}

		if err := repo.UpsertBar(context.Background(), bar); err != nil {
			return err
		}
	}

	i.Log.WithFields(logger.Fields{
		"symbol": i.Config.StoreSymbol,
		"pair":   i.Config.Base + "/" + i.Config.Quote,
		"bars":   len(series),
	}).Info("bar store updated")

	return nil
}

func (i *Ingest) fetchKlines() ([]goex.Kline, error) {
	targetSymbol := goex.NewCurrencyPair(
		goex.Currency{Symbol: i.Config.Base},
		goex.Currency{Symbol: i.Config.Quote},
	)

	const millis = 1000
	klines, err := i.exchange.GetKlineRecords(
		targetSymbol,
		goex.KLINE_PERIOD_1MIN,
		i.Config.Limit,
		goex.OptionalParameter{}.
			Optional("startTime", i.Config.StartDt.Unix()*millis).
			Optional("endTime", i.Config.EndDt.Unix()*millis),
	)
	if err != nil {
		return nil, err
	}

	return klines, nil
}
