package library

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	models "cognicard/internal/domain/models/library"
	libraryRepo "cognicard/internal/domain/repositories/library"
	"cognicard/internal/domain/services"
	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/metrics"
)

// streakWindow bounds how far back streaks look. Longest is computed within it.
const streakWindow = 2 * 365 * 24 * time.Hour

type studyService struct {
	attemptRepo libraryRepo.AttemptRepository
	authorizer  services.ResourceAuthorizer
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// NewStudyService creates a new study service
func NewStudyService(
	attemptRepo libraryRepo.AttemptRepository,
	authorizer services.ResourceAuthorizer,
	m *metrics.Metrics,
	logger *slog.Logger,
) librarySvc.StudyService {
	return &studyService{
		attemptRepo: attemptRepo,
		authorizer:  authorizer,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// RecordAttempt stores a finished study pass
func (s *studyService) RecordAttempt(ctx context.Context, req *librarySvc.RecordAttemptRequest) (attempt *models.Attempt, err error) {
	defer func() { s.metrics.RecordMutation("attempt", "create", err) }()

	if err := validation.ValidateStruct(req,
		validation.Field(&req.Total, validation.Required, validation.Min(1)),
		validation.Field(&req.Correct, validation.Min(0), validation.Max(req.Total)),
		validation.Field(&req.DurationMS, validation.Min(int64(0))),
	); err != nil {
		return nil, validationError(err)
	}

	if err := s.authorizer.CanAccessDeck(ctx, req.UserID, req.DeckID); err != nil {
		return nil, err
	}

	completedAt := s.now().UTC()
	if req.CompletedAt != nil {
		if req.CompletedAt.After(completedAt.Add(time.Minute)) {
			return nil, validationError(fmt.Errorf("completed_at: cannot be in the future"))
		}
		completedAt = req.CompletedAt.UTC()
	}

	attempt = &models.Attempt{
		UserID:      req.UserID,
		DeckID:      req.DeckID,
		Correct:     req.Correct,
		Total:       req.Total,
		DurationMS:  req.DurationMS,
		CompletedAt: completedAt,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}

	s.logger.Info("attempt recorded",
		"id", attempt.ID,
		"deck_id", attempt.DeckID,
		"accuracy", attempt.Accuracy(),
		"duration_ms", attempt.DurationMS,
	)
	return attempt, nil
}

func (s *studyService) GetDeckStats(ctx context.Context, userID, deckID string) (*models.DeckStats, error) {
	if err := s.authorizer.CanAccessDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.attemptRepo.StatsByDeck(ctx, deckID, userID)
}

// GetStreak computes streaks over the user's recent attempts, bucketed into days in loc
func (s *studyService) GetStreak(ctx context.Context, userID string, loc *time.Location) (*models.Streak, error) {
	now := s.now()
	times, err := s.attemptRepo.ListCompletionTimes(ctx, userID, now.Add(-streakWindow))
	if err != nil {
		return nil, err
	}

	streak := models.ComputeStreak(times, now, loc)
	return &streak, nil
}
