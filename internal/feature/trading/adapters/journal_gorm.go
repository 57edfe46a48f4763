// Package adapters はtradingフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"crypto_backend/internal/feature/trading/domain/entity"
	"crypto_backend/internal/feature/trading/usecase"
	"time"

	"gorm.io/gorm"
)

// JournalModel はtrade_journalテーブルのGORMモデルです。
type JournalModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	Source    string    `gorm:"size:32;not null"`
	Action    string    `gorm:"size:32;not null"`
	Symbol    string    `gorm:"size:32;index;not null"`
	Success   bool      `gorm:"not null"`
	OrderID   int64
	Error     string `gorm:"type:text"`
}

// TableName はテーブル名を返します。
func (JournalModel) TableName() string { return "trade_journal" }

// journalGorm はJournalRepositoryインターフェースのGORM実装です。
// SQLiteとPostgreSQLのどちらでも動作します。
type journalGorm struct {
	db *gorm.DB
}

// journalGormがJournalRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.JournalRepository = (*journalGorm)(nil)

// NewJournalGorm は指定されたgorm.DB接続でjournalGormの新しいインスタンスを生成します。
func NewJournalGorm(db *gorm.DB) *journalGorm {
	return &journalGorm{db: db}
}

// Record はエントリを追加し、採番されたIDをeに書き戻します。
func (r *journalGorm) Record(ctx context.Context, e *entity.JournalEntry) error {
	m := JournalModel{
		CreatedAt: e.CreatedAt,
		Source:    e.Source,
		Action:    string(e.Action),
		Symbol:    e.Symbol,
		Success:   e.Success,
		OrderID:   e.OrderID,
		Error:     e.Error,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	return nil
}

// Recent は新しい順に最大limit件のエントリを返します。symbolが空の場合は全銘柄が対象です。
func (r *journalGorm) Recent(ctx context.Context, symbol string, limit int) ([]entity.JournalEntry, error) {
	q := r.db.WithContext(ctx).Model(&JournalModel{}).Order("created_at DESC").Order("id DESC").Limit(limit)
	if symbol != "" {
		q = q.Where("symbol = ?", symbol)
	}

	var rows []JournalModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.JournalEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.JournalEntry{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			Source:    m.Source,
			Action:    entity.ActionKind(m.Action),
			Symbol:    m.Symbol,
			Success:   m.Success,
			OrderID:   m.OrderID,
			Error:     m.Error,
		})
	}
	return out, nil
}
