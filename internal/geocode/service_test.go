package geocode

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// mockProvider is a mock geocoding provider for testing.
type mockProvider struct {
	places []Place
	err    error
	calls  int
}

func (m *mockProvider) Search(_ context.Context, _ string) ([]Place, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.places, nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

func newTestService(p Provider) *Service {
	return NewService(ServiceConfig{Provider: p, Logger: zerolog.Nop()})
}

func TestService_Suggest_ShortQuerySkipsProvider(t *testing.T) {
	provider := &mockProvider{places: []Place{{DisplayName: "Bangalore"}}}
	s := newTestService(provider)

	for _, q := range []string{"", "b", "ba"} {
		if got := s.Suggest(context.Background(), q); len(got) != 0 {
			t.Errorf("expected no suggestions for %q, got %d", q, len(got))
		}
	}
	if provider.calls != 0 {
		t.Errorf("expected no provider calls for short queries, got %d", provider.calls)
	}
}

func TestService_Suggest_DedupesAndCaps(t *testing.T) {
	provider := &mockProvider{places: []Place{
		{DisplayName: "Bangalore, Karnataka, India", PlaceID: 1},
		{DisplayName: "Bangalore, Karnataka, India", PlaceID: 2},
		{DisplayName: "Bangalore Rural, Karnataka, India", PlaceID: 3},
		{DisplayName: "Bangalore Urban, Karnataka, India", PlaceID: 4},
		{DisplayName: "Bangalore Palace, Bangalore, India", PlaceID: 5},
		{DisplayName: "Bangalore Fort, Bangalore, India", PlaceID: 6},
		{DisplayName: "Bangalore East, Bangalore, India", PlaceID: 7},
	}}
	s := newTestService(provider)

	got := s.Suggest(context.Background(), "bangalore")

	if len(got) != 5 {
		t.Fatalf("expected 5 suggestions, got %d", len(got))
	}
	// The duplicate display name keeps its first occurrence.
	if got[0].PlaceID != 1 {
		t.Errorf("expected first occurrence kept, got place %d", got[0].PlaceID)
	}
	for i, p := range got {
		for j := i + 1; j < len(got); j++ {
			if p.DisplayName == got[j].DisplayName {
				t.Errorf("duplicate display name %q at %d and %d", p.DisplayName, i, j)
			}
		}
	}
}

func TestService_Suggest_ProviderFailureDegradesToEmpty(t *testing.T) {
	provider := &mockProvider{err: errors.New("timeout")}
	s := newTestService(provider)

	if got := s.Suggest(context.Background(), "bangalore"); len(got) != 0 {
		t.Errorf("expected empty suggestions on provider failure, got %d", len(got))
	}
}

func TestService_Geocode_FirstCandidateWins(t *testing.T) {
	provider := &mockProvider{places: []Place{
		{DisplayName: "Bangalore", Lat: 12.9716, Lon: 77.5946},
		{DisplayName: "Bangalore Rural", Lat: 13.2, Lon: 77.6},
	}}
	s := newTestService(provider)

	coord, err := s.Geocode(context.Background(), "Bangalore")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Lat != 12.9716 || coord.Lon != 77.5946 {
		t.Errorf("expected first candidate coordinates, got %+v", coord)
	}
}

func TestService_Geocode_NoMatch(t *testing.T) {
	s := newTestService(&mockProvider{})

	_, err := s.Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Geocode_ProviderFailurePropagates(t *testing.T) {
	s := newTestService(&mockProvider{err: ErrProviderUnavailable})

	_, err := s.Geocode(context.Background(), "Bangalore")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("transport failure must not read as a no-match")
	}
}
