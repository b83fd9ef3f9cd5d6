package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ZocoMacc/PaperDuel/src/database"
	"github.com/ZocoMacc/PaperDuel/src/marketdata"
	"github.com/ZocoMacc/PaperDuel/src/model"
)

// BarRepository reads and writes persisted OHLCV bars.
type BarRepository struct {
	db *gorm.DB
}

// NewBarRepository creates a repository bound to the main database.
func NewBarRepository() *BarRepository {
	return &BarRepository{db: database.MainDB}
}

func NewBarRepositoryWithDB(db *gorm.DB) *BarRepository {
	return &BarRepository{db: db}
}

// FetchBars returns the full series for a symbol in ascending
// chronological order, converted to engine bars.
func (r *BarRepository) FetchBars(ctx context.Context, symbol string) ([]marketdata.Bar, error) {
	var rows []model.OHLCVBar
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("datetime ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	bars := make([]marketdata.Bar, 0, len(rows))
	for i := range rows {
		bars = append(bars, rows[i].ToBar())
	}
	return bars, nil
}

// UpsertBar inserts one bar, updating prices in place when the
// (symbol, datetime) pair already exists.
func (r *BarRepository) UpsertBar(ctx context.Context, bar *model.OHLCVBar) error {
	bar.Normalize()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "datetime"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).Create(bar).Error
	if err != nil {
		logger.WithError(err).WithFields(logger.Fields{
			"symbol":   bar.Symbol,
			"datetime": bar.Datetime,
		}).Error("failed to upsert bar")
		return err
	}
	return nil
}

// CountBySymbol reports how many bars are stored for a symbol.
func (r *BarRepository) CountBySymbol(ctx context.Context, symbol string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.OHLCVBar{}).
		Where("symbol = ?", symbol).
		Count(&count).Error
	return count, err
}
