package ingest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDBMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func setupMockBinanceServer() *httptest.Server {
	handler := http.NewServeMux()
	handler.HandleFunc("/api/v3/klines", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`[
			[1499040000000, "0.01634790", "0.80000000", "0.01575800", "0.01577100", "148976.11427815", 1499644799999, "2434.19055334", 308, "1756.87402397", "28.46694368", "17928899.62484339"]
		]`))
		if err != nil {
			return
		}
	})
	return httptest.NewServer(handler)
}

func TestIngest_fetchKlines(t *testing.T) {
	server := setupMockBinanceServer()
	defer server.Close()

	apiConfig := &goex.APIConfig{
		HttpClient: http.DefaultClient,
		Endpoint:   server.URL,
	}

	ingest := Ingest{
		Log: logrus.NewEntry(logrus.New()),
		Config: &Config{
			StoreSymbol: "ES",
			Base:        "BTC",
			Quote:       "USDT",
			StartDt:     time.Now().Add(-24 * time.Hour),
			EndDt:       time.Now(),
			Limit:       1000,
		},
		exchange: binance.NewWithConfig(apiConfig),
	}

	klines, err := ingest.fetchKlines()
	require.NoError(t, err)
	require.Len(t, klines, 1, "Should fetch exactly one OHLCV record")
	require.InDelta(t, 0.01634790, klines[0].Open, 0, "Open price should match")
}

func TestIngest_fetchAndStoreUpserts(t *testing.T) {
	server := setupMockBinanceServer()
	defer server.Close()

	db, mock := setupDBMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "ohlcv_bars"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	ingest := Ingest{
		Log: logrus.NewEntry(logrus.New()),
		DB:  db,
		Config: &Config{
			StoreSymbol: "ES",
			Base:        "BTC",
			Quote:       "USDT",
			StartDt:     time.Now().Add(-24 * time.Hour),
			EndDt:       time.Now(),
			Limit:       1000,
		},
		exchange: binance.NewWithConfig(&goex.APIConfig{
			HttpClient: http.DefaultClient,
			Endpoint:   server.URL,
		}),
	}

	require.NoError(t, ingest.fetchAndStore())
	require.NoError(t, mock.ExpectationsWereMet())
}
