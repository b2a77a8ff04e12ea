package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"dataroom/internal/config"
	"dataroom/internal/domain"
)

// SearchService answers substring queries over folder and file names.
type SearchService struct {
	folders domain.FolderRepository
	files   domain.FileRepository
	logger  *slog.Logger
}

func NewSearchService(folders domain.FolderRepository, files domain.FileRepository, logger *slog.Logger) *SearchService {
	return &SearchService{folders: folders, files: files, logger: logger}
}

// Search matches the query case-insensitively against folder names and file
// names/original filenames. Queries shorter than two characters are rejected,
// the same floor clients apply before sending a request.
func (s *SearchService) Search(ctx context.Context, query string, limit, offset int) (*domain.SearchResults, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < config.MinSearchQueryLength {
		return nil, fmt.Errorf("%w: search query must be at least %d characters",
			domain.ErrValidation, config.MinSearchQueryLength)
	}

	limit = clamp(limit, config.DefaultSearchLimit, config.MaxSearchLimit)
	if offset < 0 {
		offset = 0
	}
	opts := domain.ListOptions{Limit: limit, Offset: offset}

	folders, err := s.folders.SearchByName(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	files, err := s.files.SearchByName(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResults{
		Query:   query,
		Folders: emptyIfNil(folders),
		Files:   emptyIfNil(files),
		Limit:   limit,
		Offset:  offset,
	}, nil
}
