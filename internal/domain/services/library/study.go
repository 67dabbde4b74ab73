package library

import (
	"context"
	"time"

	"cognicard/internal/domain/models/library"
)

// StudyService records study attempts and derives statistics from them
type StudyService interface {
	RecordAttempt(ctx context.Context, req *RecordAttemptRequest) (*library.Attempt, error)

	GetDeckStats(ctx context.Context, userID, deckID string) (*library.DeckStats, error)

	// GetStreak computes study streaks using calendar days in loc
	GetStreak(ctx context.Context, userID string, loc *time.Location) (*library.Streak, error)
}

// RecordAttemptRequest represents a finished study pass
type RecordAttemptRequest struct {
	UserID      string     `json:"-"`
	DeckID      string     `json:"-"`
	Correct     int        `json:"correct"`
	Total       int        `json:"total"`
	DurationMS  int64      `json:"duration_ms"`
	CompletedAt *time.Time `json:"completed_at,omitempty"` // Defaults to now
}
