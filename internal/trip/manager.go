package trip

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ManagerConfig holds configuration for the session manager.
type ManagerConfig struct {
	// Planner is the configuration template for new sessions.
	Planner PlannerConfig

	// Logger for manager operations.
	Logger zerolog.Logger

	// SessionTTL is how long an untouched session lives (default: 30 minutes).
	SessionTTL time.Duration

	// CleanupInterval is how often expired sessions are removed (default: 5 minutes).
	CleanupInterval time.Duration
}

// Manager owns the live planner sessions, one per dashboard page.
type Manager struct {
	plannerCfg      PlannerConfig
	logger          zerolog.Logger
	sessionTTL      time.Duration
	cleanupInterval time.Duration

	mu          sync.Mutex
	sessions    map[string]*session
	lastCleanup time.Time
}

type session struct {
	planner  *Planner
	lastSeen time.Time
}

// NewManager creates a new session manager.
func NewManager(cfg ManagerConfig) *Manager {
	sessionTTL := cfg.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = 30 * time.Minute
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = 5 * time.Minute
	}

	return &Manager{
		plannerCfg:      cfg.Planner,
		logger:          cfg.Logger,
		sessionTTL:      sessionTTL,
		cleanupInterval: cleanupInterval,
		sessions:        make(map[string]*session),
	}
}

// Create starts a new planner session and returns its id.
func (m *Manager) Create() (string, *Planner) {
	id := uuid.New().String()
	planner := NewPlanner(m.plannerCfg)

	m.mu.Lock()
	m.sessions[id] = &session{planner: planner, lastSeen: time.Now()}
	m.cleanupIfNeeded()
	m.mu.Unlock()

	m.logger.Debug().Str("trip_id", id).Msg("planner session created")
	return id, planner
}

// Get returns the planner for a session id, refreshing its TTL.
func (m *Manager) Get(id string) (*Planner, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = time.Now()
	return s.planner, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// cleanupIfNeeded removes expired sessions if the cleanup interval has passed.
func (m *Manager) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(m.lastCleanup) < m.cleanupInterval {
		return
	}

	m.lastCleanup = now
	expired := 0

	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.sessionTTL {
			delete(m.sessions, id)
			expired++
		}
	}

	if expired > 0 {
		m.logger.Debug().
			Int("expired_sessions", expired).
			Msg("cleaned up expired planner sessions")
	}
}
