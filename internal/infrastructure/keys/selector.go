package keys

import (
	"time"

	"github.com/doeshing/exa-go/internal/domain"
)

// Select picks the key index for the next upstream call.
//
// Valid keys that are off cooldown are scanned circularly starting at
// CurrentIndex, and the least-used one wins (first encountered on ties),
// so round robin supplies the scan order while usage counters supply the
// load balancing. When every valid key is cooling, the one whose cooldown
// expires soonest is returned so the caller can still proceed rather than
// fail outright. CurrentIndex advances past the choice on every branch.
//
// Select never mutates usage counters; those change only when the call
// outcome is known.
func Select(poolSize int, state *domain.KeyState, now time.Time) (int, bool) {
	if poolSize <= 0 || state == nil {
		return 0, false
	}

	record := func(idx int) domain.KeyRecord {
		if rec, ok := state.Keys[idx]; ok && rec != nil {
			return *rec
		}
		return *domain.NewKeyRecord()
	}

	anyValid := false
	for i := 0; i < poolSize; i++ {
		if record(i).Valid {
			anyValid = true
			break
		}
	}
	if !anyValid {
		return 0, false
	}

	start := state.CurrentIndex % poolSize
	if start < 0 {
		start += poolSize
	}

	selected := -1
	var bestRequests uint64
	for off := 0; off < poolSize; off++ {
		idx := (start + off) % poolSize
		rec := record(idx)
		if !rec.Valid || rec.OnCooldown(now) {
			continue
		}
		if selected == -1 || rec.Usage.Requests < bestRequests {
			selected = idx
			bestRequests = rec.Usage.Requests
		}
	}

	if selected == -1 {
		// Every valid key is cooling: degrade to the soonest cooldown,
		// lowest index on ties.
		var soonest time.Time
		for idx := 0; idx < poolSize; idx++ {
			rec := record(idx)
			if !rec.Valid || rec.CooldownUntil == nil {
				continue
			}
			if selected == -1 || rec.CooldownUntil.Before(soonest) {
				selected = idx
				soonest = *rec.CooldownUntil
			}
		}
		if selected == -1 {
			return 0, false
		}
	}

	state.CurrentIndex = (selected + 1) % poolSize
	return selected, true
}
