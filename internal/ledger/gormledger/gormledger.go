// Package gormledger persists the ledger contract in a relational store via
// gorm. Query evaluation happens in Go against the shared selector matcher so
// semantics match the other backends exactly.
package gormledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
)

// LedgerState is the current value of one world-state key.
type LedgerState struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Value     []byte    `gorm:"not null"`
	Version   uint64    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (LedgerState) TableName() string { return "ledger_states" }

// LedgerHistory is one committed mutation, including delete tombstones.
type LedgerHistory struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Key       string       `gorm:"type:text;not null;index"`
	Value     []byte
	IsDelete  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (LedgerHistory) TableName() string { return "ledger_history" }

// LedgerEvent is one emitted operation event.
type LedgerEvent struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null;index"`
	Payload   []byte
	CreatedAt time.Time `gorm:"not null"`
}

func (LedgerEvent) TableName() string { return "ledger_events" }

type Ledger struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	now   func() time.Time
}

func New(db *gorm.DB, log *zap.Logger, genID *snowflake.Node) (*Ledger, error) {
	if err := db.AutoMigrate(&LedgerState{}, &LedgerHistory{}, &LedgerEvent{}); err != nil {
		return nil, fmt.Errorf("migrate ledger tables: %w", err)
	}
	return &Ledger{
		db:    db,
		log:   log.Named("ledger.gorm"),
		genID: genID,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

func (l *Ledger) GetState(ctx context.Context, key string) ([]byte, error) {
	var row LedgerState
	err := l.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state %s: %w", key, err)
	}
	return row.Value, nil
}

func (l *Ledger) PutState(ctx context.Context, key string, value []byte) error {
	now := l.now()
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row LedgerState
		err := tx.First(&row, "key = ?", key).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = LedgerState{Key: key, Value: value, Version: 1, UpdatedAt: now}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			row.Value = value
			row.Version++
			row.UpdatedAt = now
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return tx.Create(&LedgerHistory{
			ID:        l.genID.Generate(),
			Key:       key,
			Value:     value,
			CreatedAt: now,
		}).Error
	})
}

func (l *Ledger) DeleteState(ctx context.Context, key string) error {
	now := l.now()
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&LedgerState{}, "key = ?", key)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Create(&LedgerHistory{
			ID:        l.genID.Generate(),
			Key:       key,
			IsDelete:  true,
			CreatedAt: now,
		}).Error
	})
}

func (l *Ledger) GetQueryResult(ctx context.Context, selector ledgerdomain.Selector) ([]ledgerdomain.KV, error) {
	var rows []LedgerState
	if err := l.db.WithContext(ctx).Order("key asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query states: %w", err)
	}
	var out []ledgerdomain.KV
	for _, row := range rows {
		if !selector.MatchesRaw(row.Value) {
			continue
		}
		out = append(out, ledgerdomain.KV{Key: row.Key, Value: row.Value})
	}
	return out, nil
}

func (l *Ledger) GetHistoryForKey(ctx context.Context, key string) ([]ledgerdomain.Modification, error) {
	var rows []LedgerHistory
	err := l.db.WithContext(ctx).Where("key = ?", key).Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", key, err)
	}
	out := make([]ledgerdomain.Modification, 0, len(rows))
	for _, row := range rows {
		out = append(out, ledgerdomain.Modification{
			Value:     row.Value,
			Timestamp: row.CreatedAt,
			IsDelete:  row.IsDelete,
		})
	}
	return out, nil
}

func (l *Ledger) SetEvent(ctx context.Context, name string, payload []byte) error {
	err := l.db.WithContext(ctx).Create(&LedgerEvent{
		ID:        l.genID.Generate(),
		Name:      name,
		Payload:   payload,
		CreatedAt: l.now(),
	}).Error
	if err != nil {
		return fmt.Errorf("emit %s: %w", name, err)
	}
	l.log.Debug("event emitted", zap.String("event", name))
	return nil
}
