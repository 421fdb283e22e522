package keys

import (
	"time"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/ports"
)

// Manager owns the key pool and its rotation state for one invocation.
// The state is loaded once at construction and written back through
// Persist; in-memory mutation stays scoped to this run.
type Manager struct {
	pool     []string
	state    *domain.KeyState
	store    *StateStore
	log      ports.Logger
	cooldown time.Duration
	now      func() time.Time
}

// NewManager loads the durable state and ensures a record exists for every
// key in the pool.
func NewManager(pool []string, store *StateStore, log ports.Logger) *Manager {
	m := &Manager{
		pool:     pool,
		state:    store.Load(),
		store:    store,
		log:      log,
		cooldown: domain.DefaultCooldown,
		now:      time.Now,
	}
	for i := range pool {
		m.state.Record(i)
	}
	return m
}

// SetCooldown overrides the default cooldown applied when a rate limit
// carries no Retry-After hint.
func (m *Manager) SetCooldown(d time.Duration) {
	if d > 0 {
		m.cooldown = d
	}
}

// Next selects the key for the next outbound call.
func (m *Manager) Next() (int, string, error) {
	idx, ok := Select(len(m.pool), m.state, m.now())
	if !ok {
		return 0, "", domain.ErrAllKeysInvalid
	}
	if m.log != nil {
		m.log.Debug("selected key", map[string]interface{}{
			"index": idx,
			"key":   Mask(m.pool[idx]),
		})
	}
	return idx, m.pool[idx], nil
}

// KeyAt returns the key at idx, for flows that must pin one key.
func (m *Manager) KeyAt(idx int) (string, bool) {
	if idx < 0 || idx >= len(m.pool) {
		return "", false
	}
	return m.pool[idx], true
}

// PoolSize returns the number of configured keys.
func (m *Manager) PoolSize() int {
	return len(m.pool)
}

// RecordSuccess counts a confirmed success and lifts any cooldown.
func (m *Manager) RecordSuccess(idx int) {
	rec := m.state.Record(idx)
	rec.Usage.Requests++
	rec.Usage.Successes++
	rec.CooldownUntil = nil
}

// RecordRateLimited counts a 429 and puts the key on cooldown, honoring
// the upstream Retry-After hint when present.
func (m *Manager) RecordRateLimited(idx int, retryAfter *time.Duration) {
	d := m.cooldown
	if retryAfter != nil && *retryAfter > 0 {
		d = *retryAfter
	}
	until := m.now().Add(d)
	rec := m.state.Record(idx)
	rec.Usage.Requests++
	rec.Usage.Errors++
	rec.CooldownUntil = &until
	if m.log != nil {
		m.log.Warn("key rate limited", map[string]interface{}{
			"key":      Mask(m.pool[idx]),
			"cooldown": d.String(),
		})
	}
}

// MarkInvalid excludes a key from selection until the operator intervenes.
func (m *Manager) MarkInvalid(idx int) {
	m.state.Record(idx).Valid = false
	if m.log != nil {
		m.log.Warn("key marked invalid", map[string]interface{}{"key": Mask(m.pool[idx])})
	}
}

// Persist writes the rotation state back to disk.
func (m *Manager) Persist() error {
	return m.store.Save(m.state)
}

// Stale reports whether the pool has gone unvalidated past the threshold.
func (m *Manager) Stale() bool {
	return m.now().Sub(m.state.LastValidated) > domain.StaleThreshold
}

// MarkValidated stamps the state after a validation pass.
func (m *Manager) MarkValidated() {
	m.state.LastValidated = m.now()
}

// Reset clears cooldowns and usage counters, keeping the pool and each
// key's validity, then persists.
func (m *Manager) Reset() error {
	m.state.Reset()
	return m.Persist()
}

// Status builds the masked read-only snapshot for the status command.
func (m *Manager) Status() domain.KeyPoolStatus {
	now := m.now()
	status := domain.KeyPoolStatus{
		TotalKeys:     len(m.pool),
		LastValidated: m.state.LastValidated,
		Stale:         m.Stale(),
	}
	if len(m.pool) > 0 {
		status.NextIndex = m.state.CurrentIndex % len(m.pool)
	}
	for idx, key := range m.pool {
		rec := m.state.Record(idx)
		entry := domain.KeyStatusEntry{
			Index:  idx,
			Masked: Mask(key),
			Valid:  rec.Valid,
			Usage:  rec.Usage,
		}
		if rec.OnCooldown(now) {
			entry.CooldownRemaining = rec.CooldownUntil.Sub(now)
		}
		status.Entries = append(status.Entries, entry)
	}
	return status
}

var _ ports.KeyRotator = (*Manager)(nil)
