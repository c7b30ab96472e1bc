package caching

import (
	"context"
	"time"

	"shelfsmart/internal/models"

	"go.uber.org/zap"
)

const (
	// SuggestionsKey is where generated restock suggestions are cached.
	SuggestionsKey = "shelfsmart:suggestions"
	// DefaultSuggestionsTTL bounds how stale cached suggestions may get.
	DefaultSuggestionsTTL = 15 * time.Minute
)

// Suggester produces restock suggestions.
type Suggester interface {
	Suggestions(ctx context.Context) (models.Suggestions, error)
}

// SuggestionCache serves suggestions from the cache and only asks the
// backend on a miss. Generating suggestions is slow, and they change only as
// fast as the inventory does.
type SuggestionCache struct {
	source Suggester
	cache  CacheService
	ttl    time.Duration
	logger *zap.Logger
}

func NewSuggestionCache(source Suggester, cache CacheService, ttl time.Duration, logger *zap.Logger) *SuggestionCache {
	if ttl <= 0 {
		ttl = DefaultSuggestionsTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionCache{source: source, cache: cache, ttl: ttl, logger: logger}
}

// Suggestions returns cached suggestions when present. Cache failures fall
// through to the source; empty results are not cached.
func (s *SuggestionCache) Suggestions(ctx context.Context) (models.Suggestions, error) {
	var cached models.Suggestions
	hit, err := s.cache.GetJSON(ctx, SuggestionsKey, &cached)
	if err != nil {
		s.logger.Warn("Suggestion cache read failed", zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	fresh, err := s.source.Suggestions(ctx)
	if err != nil {
		return models.Suggestions{}, err
	}
	if !fresh.Empty() {
		if err := s.cache.SetJSON(ctx, SuggestionsKey, fresh, s.ttl); err != nil {
			s.logger.Warn("Suggestion cache write failed", zap.Error(err))
		}
	}
	return fresh, nil
}

// Invalidate drops the cached suggestions, e.g. after the inventory changed.
func (s *SuggestionCache) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, SuggestionsKey)
}
