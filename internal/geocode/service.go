package geocode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	// DefaultMinQueryLen is the minimum query length before a suggestion
	// lookup hits the network.
	DefaultMinQueryLen = 3

	// DefaultMaxSuggestions caps the suggestion list returned to callers.
	DefaultMaxSuggestions = 5
)

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the geocoding data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// MinQueryLen is the suggestion query length threshold (default: 3).
	MinQueryLen int

	// MaxSuggestions is the suggestion list cap (default: 5).
	MaxSuggestions int
}

// Service applies the suggestion policy (length threshold, de-duplication,
// result cap) on top of a geocoding provider.
type Service struct {
	provider       Provider
	logger         zerolog.Logger
	minQueryLen    int
	maxSuggestions int
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	minQueryLen := cfg.MinQueryLen
	if minQueryLen == 0 {
		minQueryLen = DefaultMinQueryLen
	}

	maxSuggestions := cfg.MaxSuggestions
	if maxSuggestions == 0 {
		maxSuggestions = DefaultMaxSuggestions
	}

	return &Service{
		provider:       cfg.Provider,
		logger:         cfg.Logger,
		minQueryLen:    minQueryLen,
		maxSuggestions: maxSuggestions,
	}
}

// Suggest returns candidate places for a free-text query. Queries below the
// length threshold return an empty list without a network call. Provider
// failures degrade to an empty list; suggestion lookups never block the UI.
// Candidates are de-duplicated by display name, preserving the provider's
// relevance order, and capped at MaxSuggestions.
func (s *Service) Suggest(ctx context.Context, query string) []Place {
	if len(query) < s.minQueryLen {
		return nil
	}

	places, err := s.provider.Search(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("provider", s.provider.Name()).
			Str("query", query).
			Msg("suggestion lookup failed")
		return nil
	}

	seen := make(map[string]struct{}, len(places))
	suggestions := make([]Place, 0, s.maxSuggestions)
	for _, p := range places {
		if _, ok := seen[p.DisplayName]; ok {
			continue
		}
		seen[p.DisplayName] = struct{}{}
		suggestions = append(suggestions, p)
		if len(suggestions) == s.maxSuggestions {
			break
		}
	}

	return suggestions
}

// Geocode resolves an address to the coordinates of the first candidate the
// provider returns. An empty candidate list yields ErrNotFound; transport
// failures are wrapped and returned as-is.
func (s *Service) Geocode(ctx context.Context, address string) (Coordinate, error) {
	places, err := s.provider.Search(ctx, address)
	if err != nil {
		return Coordinate{}, fmt.Errorf("geocoding %q: %w", address, err)
	}
	if len(places) == 0 {
		return Coordinate{}, fmt.Errorf("geocoding %q: %w", address, ErrNotFound)
	}
	return places[0].Coordinate(), nil
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
