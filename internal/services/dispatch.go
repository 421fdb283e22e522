// Package services contains the orchestration layer: the request
// dispatcher that fuses the response cache with key rotation, the
// asynchronous research flow, and stale-key validation.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/ports"
)

// Operation describes one upstream call together with its caching
// identity. The Call closure keeps the dispatcher agnostic of request
// schemas; it receives the selected key and returns the raw response.
type Operation struct {
	Name        string
	Fingerprint string
	TTL         time.Duration
	BypassCache bool
	Call        func(ctx context.Context, key string) ([]byte, error)
}

func (op Operation) cacheable() bool {
	return op.Fingerprint != "" && !op.BypassCache
}

// Dispatcher runs operations through the cache, the key selector, and a
// single bounded retry after a rate limit. Rotation state is persisted
// before any outcome is reported, including failures, so key health is
// never lost.
type Dispatcher struct {
	Keys  ports.KeyRotator
	Cache ports.CacheStore
	Log   ports.Logger
}

// Do executes one operation.
//
// Control flow: cache lookup (hit is terminal and touches no key state);
// on miss, select a key and call upstream. A success updates counters,
// clears the cooldown, and writes the cache. A rate limit puts the key on
// cooldown and retries exactly once with a freshly selected key when the
// pool has more than one; a second rate limit fails the operation. Any
// other upstream failure is surfaced immediately without a retry.
func (d *Dispatcher) Do(ctx context.Context, op Operation) (domain.Result, error) {
	if d.Keys == nil || d.Cache == nil || op.Call == nil {
		return domain.Result{Status: domain.StatusError}, errors.New("services.Dispatcher dependencies not satisfied")
	}

	if op.cacheable() {
		if payload, ok := d.Cache.Read(op.Fingerprint, op.TTL); ok {
			d.debug("cache hit", op)
			return domain.Result{Status: domain.StatusSuccess, Payload: payload, FromCache: true}, nil
		}
	}

	attempts := 1
	if d.Keys.PoolSize() > 1 {
		attempts = 2
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		idx, key, err := d.Keys.Next()
		if err != nil {
			d.persist()
			return domain.Result{Status: domain.StatusError}, err
		}

		payload, err := op.Call(ctx, key)
		if err == nil {
			d.Keys.RecordSuccess(idx)
			d.persist()
			if op.cacheable() {
				d.Cache.Write(op.Fingerprint, payload)
			}
			return domain.Result{Status: domain.StatusSuccess, Payload: payload, KeyIndex: idx}, nil
		}

		var rl *domain.RateLimitError
		if errors.As(err, &rl) {
			d.Keys.RecordRateLimited(idx, rl.RetryAfter)
			d.persist()
			lastErr = err
			continue
		}

		d.persist()
		return domain.Result{Status: domain.StatusError}, err
	}

	return domain.Result{Status: domain.StatusError},
		fmt.Errorf("%s: rate limited after %d attempts: %w", op.Name, attempts, lastErr)
}

func (d *Dispatcher) persist() {
	if err := d.Keys.Persist(); err != nil && d.Log != nil {
		d.Log.Warn("persist rotation state failed", map[string]interface{}{"error": err.Error()})
	}
}

func (d *Dispatcher) debug(msg string, op Operation) {
	if d.Log != nil {
		d.Log.Debug(msg, map[string]interface{}{"op": op.Name, "fingerprint": op.Fingerprint})
	}
}
