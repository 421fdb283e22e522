package keys

import (
	"testing"
	"time"

	"github.com/doeshing/exa-go/internal/domain"
)

func stateWith(records map[int]*domain.KeyRecord) *domain.KeyState {
	state := domain.NewKeyState()
	for idx, rec := range records {
		state.Keys[idx] = rec
	}
	return state
}

func cooling(until time.Time) *domain.KeyRecord {
	rec := domain.NewKeyRecord()
	rec.CooldownUntil = &until
	return rec
}

func TestSelectRoundRobinUnderEqualUsage(t *testing.T) {
	const poolSize = 4
	state := domain.NewKeyState()
	now := time.Now()

	seen := map[int]bool{}
	for i := 0; i < poolSize; i++ {
		idx, ok := Select(poolSize, state, now)
		if !ok {
			t.Fatalf("selection %d failed", i)
		}
		if seen[idx] {
			t.Fatalf("index %d selected twice before the pool was exhausted", idx)
		}
		seen[idx] = true
	}
	if len(seen) != poolSize {
		t.Fatalf("visited %d indices, want %d", len(seen), poolSize)
	}
}

func TestSelectPrefersLowestUsage(t *testing.T) {
	state := domain.NewKeyState()
	state.Record(0).Usage.Requests = 10
	state.Record(1).Usage.Requests = 2
	state.Record(2).Usage.Requests = 7

	idx, ok := Select(3, state, time.Now())
	if !ok {
		t.Fatal("selection failed")
	}
	if idx != 1 {
		t.Fatalf("selected %d, want least-used index 1", idx)
	}
	if state.CurrentIndex != 2 {
		t.Fatalf("CurrentIndex = %d, want 2", state.CurrentIndex)
	}
}

func TestSelectSkipsCoolingKeys(t *testing.T) {
	now := time.Now()
	state := stateWith(map[int]*domain.KeyRecord{
		0: cooling(now.Add(time.Minute)),
	})

	for i := 0; i < 4; i++ {
		idx, ok := Select(2, state, now)
		if !ok {
			t.Fatal("selection failed")
		}
		if idx == 0 {
			t.Fatal("selected a key that is on cooldown")
		}
	}
}

func TestSelectReusesKeyAfterCooldownExpires(t *testing.T) {
	now := time.Now()
	state := stateWith(map[int]*domain.KeyRecord{
		0: cooling(now.Add(-time.Second)),
	})
	state.Keys[0].Usage.Requests = 0
	state.Record(1).Usage.Requests = 5

	idx, ok := Select(2, state, now)
	if !ok {
		t.Fatal("selection failed")
	}
	if idx != 0 {
		t.Fatalf("selected %d, want 0 (cooldown expired, least used)", idx)
	}
}

func TestSelectAllCoolingFallsBackToSoonest(t *testing.T) {
	now := time.Now()
	state := stateWith(map[int]*domain.KeyRecord{
		0: cooling(now.Add(3 * time.Minute)),
		1: cooling(now.Add(time.Minute)),
		2: cooling(now.Add(2 * time.Minute)),
	})

	idx, ok := Select(3, state, now)
	if !ok {
		t.Fatal("expected degraded fallback, got none")
	}
	if idx != 1 {
		t.Fatalf("selected %d, want soonest-cooldown index 1", idx)
	}
	if state.CurrentIndex != 2 {
		t.Fatalf("CurrentIndex = %d, want 2", state.CurrentIndex)
	}
}

func TestSelectAllCoolingTieBreaksOnLowestIndex(t *testing.T) {
	now := time.Now()
	until := now.Add(time.Minute)
	state := stateWith(map[int]*domain.KeyRecord{
		0: cooling(until),
		1: cooling(until),
	})
	state.CurrentIndex = 1

	idx, ok := Select(2, state, now)
	if !ok {
		t.Fatal("selection failed")
	}
	if idx != 0 {
		t.Fatalf("selected %d, want lowest index 0 on cooldown tie", idx)
	}
}

func TestSelectIgnoresInvalidKeys(t *testing.T) {
	state := domain.NewKeyState()
	state.Record(0).Valid = false

	for i := 0; i < 3; i++ {
		idx, ok := Select(2, state, time.Now())
		if !ok {
			t.Fatal("selection failed")
		}
		if idx == 0 {
			t.Fatal("selected an invalid key")
		}
	}
}

func TestSelectAllInvalid(t *testing.T) {
	state := domain.NewKeyState()
	state.Record(0).Valid = false
	state.Record(1).Valid = false

	if _, ok := Select(2, state, time.Now()); ok {
		t.Fatal("expected no selection when every key is invalid")
	}
}

func TestSelectEmptyPool(t *testing.T) {
	if _, ok := Select(0, domain.NewKeyState(), time.Now()); ok {
		t.Fatal("expected no selection from an empty pool")
	}
}

func TestSelectDoesNotTouchCounters(t *testing.T) {
	state := domain.NewKeyState()
	if _, ok := Select(3, state, time.Now()); !ok {
		t.Fatal("selection failed")
	}
	for idx, rec := range state.Keys {
		if rec.Usage != (domain.UsageStats{}) {
			t.Fatalf("key %d counters mutated by selection: %+v", idx, rec.Usage)
		}
	}
}
