package domain

import (
	"encoding/json"
	"time"
)

// UsageStats counts outcomes for one API key.
type UsageStats struct {
	Requests  uint64 `json:"requests"`
	Successes uint64 `json:"success"`
	Errors    uint64 `json:"errors"`
}

// KeyRecord tracks the health of a single key, addressed by pool index.
type KeyRecord struct {
	Valid         bool       `json:"valid"`
	CooldownUntil *time.Time `json:"cooldown_until,omitempty"`
	Usage         UsageStats `json:"usage"`
}

// NewKeyRecord returns a record for a key that has never been used.
func NewKeyRecord() *KeyRecord {
	return &KeyRecord{Valid: true}
}

// UnmarshalJSON treats a missing "valid" field as true so that state files
// written by older versions do not silently disable keys.
func (r *KeyRecord) UnmarshalJSON(data []byte) error {
	type alias KeyRecord
	aux := struct {
		Valid *bool `json:"valid"`
		*alias
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Valid == nil {
		r.Valid = true
	} else {
		r.Valid = *aux.Valid
	}
	return nil
}

// OnCooldown reports whether the key must be avoided as of now.
func (r *KeyRecord) OnCooldown(now time.Time) bool {
	return r.CooldownUntil != nil && now.Before(*r.CooldownUntil)
}

// KeyState is the durable rotation record shared by all invocations on a
// machine. It is loaded at startup, mutated in memory, and written back
// before exit; concurrent invocations race and the last writer wins.
type KeyState struct {
	Version       int                `json:"version"`
	CurrentIndex  int                `json:"current_index"`
	LastValidated time.Time          `json:"last_validated"`
	Keys          map[int]*KeyRecord `json:"keys"`
}

// NewKeyState returns the default state for a first run.
func NewKeyState() *KeyState {
	return &KeyState{
		Version:       1,
		LastValidated: time.Now().UTC(),
		Keys:          map[int]*KeyRecord{},
	}
}

// Record returns the record for idx, creating a default-valid one if needed.
func (s *KeyState) Record(idx int) *KeyRecord {
	if s.Keys == nil {
		s.Keys = map[int]*KeyRecord{}
	}
	rec, ok := s.Keys[idx]
	if !ok {
		rec = NewKeyRecord()
		s.Keys[idx] = rec
	}
	return rec
}

// Reset clears cooldowns and usage counters without touching validity.
func (s *KeyState) Reset() {
	for _, rec := range s.Keys {
		rec.CooldownUntil = nil
		rec.Usage = UsageStats{}
	}
	s.CurrentIndex = 0
}

// KeyStatusEntry is the masked, read-only view of one key for the status command.
type KeyStatusEntry struct {
	Index             int
	Masked            string
	Valid             bool
	CooldownRemaining time.Duration
	Usage             UsageStats
}

// KeyPoolStatus is the read-only snapshot rendered by the status command.
type KeyPoolStatus struct {
	TotalKeys     int
	NextIndex     int
	LastValidated time.Time
	Stale         bool
	Entries       []KeyStatusEntry
}
