// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Session
// aggregate and its Choice history.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Staleness and phase rules live in the
// service layer.
//
// Error semantics:
//   - When a session is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-style-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSession inserts a fresh discovery session: phase discovery, round 1,
// empty choice history, no recommendations. The id is a random UUID and
// CreatedAt is set to UTC.
func CreateSession(ctx context.Context, db *gorm.DB) (*domain.Session, error) {
	s := &domain.Session{
		ID:           uuid.NewString(),
		Phase:        domain.PhaseDiscovery,
		CurrentRound: 1,
		Scores:       domain.StyleScores{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession fetches a session by id with its choice history preloaded in
// round order. Returns ErrNotFound when the record does not exist.
func GetSession(ctx context.Context, db *gorm.DB, id string) (*domain.Session, error) {
	var s domain.Session
	err := db.WithContext(ctx).
		Preload("Choices", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("round asc")
		}).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSession persists the mutable session columns (phase, round, scores,
// recommendations). The choice history is append-only and written through
// CreateChoice, never here. Returns ErrNotFound when no row matches.
func UpdateSession(ctx context.Context, db *gorm.DB, s *domain.Session) error {
	res := db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", s.ID).
		Select("phase", "current_round", "scores", "recommended_style", "second_best_style").
		Updates(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteSession removes a session; its choices are cascade-deleted. Deleting
// an absent session is not an error (restart treats both the same).
func DeleteSession(ctx context.Context, db *gorm.DB, id string) error {
	if err := db.WithContext(ctx).Where("session_id = ?", id).Delete(&domain.Choice{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Session{}).Error
}

// CreateChoice appends one round's decision record. The id is a random UUID
// and CreatedAt is set to UTC; all other fields come from the caller.
func CreateChoice(db *gorm.DB, c *domain.Choice) (*domain.Choice, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	if err := db.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// CountChoices returns the number of choices recorded for a session.
func CountChoices(ctx context.Context, db *gorm.DB, sessionID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Choice{}).
		Where("session_id = ?", sessionID).
		Count(&total).Error
	return total, err
}
