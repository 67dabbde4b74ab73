package library

import (
	"context"
	"log/slog"
	"strings"

	models "cognicard/internal/domain/models/library"
	libraryRepo "cognicard/internal/domain/repositories/library"
	"cognicard/internal/domain/services"
	librarySvc "cognicard/internal/domain/services/library"
)

type searchService struct {
	searchRepo libraryRepo.SearchRepository
	authorizer services.ResourceAuthorizer
	logger     *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	searchRepo libraryRepo.SearchRepository,
	authorizer services.ResourceAuthorizer,
	logger *slog.Logger,
) librarySvc.SearchService {
	return &searchService{
		searchRepo: searchRepo,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Search validates the request and runs it against the user's library
func (s *searchService) Search(ctx context.Context, userID string, req *librarySvc.SearchRequest) (*models.SearchResults, error) {
	opts := &models.SearchOptions{
		Query:  strings.TrimSpace(req.Query),
		UserID: userID,
		Limit:  req.Limit,
		Offset: req.Offset,
		DeckID: req.DeckID,
	}
	for _, f := range req.Fields {
		opts.Fields = append(opts.Fields, models.SearchField(strings.ToLower(strings.TrimSpace(f))))
	}

	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, validationError(err)
	}

	if opts.DeckID != nil {
		if err := s.authorizer.CanAccessDeck(ctx, userID, *opts.DeckID); err != nil {
			return nil, err
		}
	}

	results, err := s.searchRepo.Search(ctx, opts)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("library search", "user_id", userID, "query", opts.Query, "total", results.TotalCount)
	return results, nil
}
