package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/infrastructure/keys"
)

func newManager(t *testing.T, pool ...string) *keys.Manager {
	t.Helper()
	return keys.NewManager(pool, keys.NewStateStore(t.TempDir(), nil), nil)
}

func TestDoCacheHitSkipsUpstream(t *testing.T) {
	cache := &stubCache{entries: map[string][]byte{"fp": []byte("cached")}}
	calls := 0
	d := &Dispatcher{Keys: newManager(t, "a"), Cache: cache}

	result, err := d.Do(context.Background(), Operation{
		Name:        "search",
		Fingerprint: "fp",
		TTL:         time.Hour,
		Call: func(context.Context, string) ([]byte, error) {
			calls++
			return []byte("live"), nil
		},
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !result.FromCache || string(result.Payload) != "cached" {
		t.Fatalf("result = %+v, want cached payload", result)
	}
	if calls != 0 {
		t.Fatalf("upstream called %d times on a cache hit", calls)
	}
}

func TestDoSuccessUpdatesStateAndWritesCache(t *testing.T) {
	cache := &stubCache{entries: map[string][]byte{}}
	mgr := newManager(t, "key-a")
	d := &Dispatcher{Keys: mgr, Cache: cache}

	result, err := d.Do(context.Background(), Operation{
		Name:        "search",
		Fingerprint: "fp",
		TTL:         time.Hour,
		Call: func(_ context.Context, key string) ([]byte, error) {
			return []byte("payload"), nil
		},
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.Status != domain.StatusSuccess || result.FromCache {
		t.Fatalf("result = %+v", result)
	}
	if string(cache.entries["fp"]) != "payload" {
		t.Fatal("payload not written to cache")
	}

	usage := mgr.Status().Entries[0].Usage
	if usage.Requests != 1 || usage.Successes != 1 || usage.Errors != 0 {
		t.Fatalf("usage = %+v", usage)
	}
}

func TestDoRateLimitRetriesOnceWithDifferentKey(t *testing.T) {
	mgr := newManager(t, "key-a", "key-b")
	d := &Dispatcher{Keys: mgr, Cache: &stubCache{entries: map[string][]byte{}}}

	var used []string
	result, err := d.Do(context.Background(), Operation{
		Name: "search",
		Call: func(_ context.Context, key string) ([]byte, error) {
			used = append(used, key)
			if key == "key-a" {
				return nil, &domain.RateLimitError{}
			}
			return []byte("ok"), nil
		},
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if len(used) != 2 || used[0] != "key-a" || used[1] != "key-b" {
		t.Fatalf("keys used = %v, want [key-a key-b]", used)
	}
	if result.KeyIndex != 1 {
		t.Fatalf("KeyIndex = %d, want 1", result.KeyIndex)
	}

	status := mgr.Status()
	a, b := status.Entries[0], status.Entries[1]
	if a.Usage.Requests != 1 || a.Usage.Errors != 1 || a.CooldownRemaining <= 0 {
		t.Fatalf("key-a after rate limit = %+v", a)
	}
	if b.Usage.Requests != 1 || b.Usage.Successes != 1 {
		t.Fatalf("key-b after success = %+v", b)
	}
}

func TestDoTwoRateLimitsFailWithoutThirdAttempt(t *testing.T) {
	mgr := newManager(t, "key-a", "key-b", "key-c")
	d := &Dispatcher{Keys: mgr, Cache: &stubCache{entries: map[string][]byte{}}}

	calls := 0
	_, err := d.Do(context.Background(), Operation{
		Name: "search",
		Call: func(context.Context, string) ([]byte, error) {
			calls++
			return nil, &domain.RateLimitError{}
		},
	})
	if err == nil {
		t.Fatal("expected failure after two rate limits")
	}
	if calls != 2 {
		t.Fatalf("upstream called %d times, want exactly 2", calls)
	}
	var rl *domain.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("error %v should unwrap to RateLimitError", err)
	}
}

func TestDoSingleKeyDoesNotRetry(t *testing.T) {
	d := &Dispatcher{Keys: newManager(t, "only"), Cache: &stubCache{entries: map[string][]byte{}}}

	calls := 0
	_, err := d.Do(context.Background(), Operation{
		Name: "search",
		Call: func(context.Context, string) ([]byte, error) {
			calls++
			return nil, &domain.RateLimitError{}
		},
	})
	if err == nil {
		t.Fatal("expected failure")
	}
	if calls != 1 {
		t.Fatalf("upstream called %d times with a one-key pool, want 1", calls)
	}
}

func TestDoOtherFailureIsNotRetried(t *testing.T) {
	mgr := newManager(t, "key-a", "key-b")
	d := &Dispatcher{Keys: mgr, Cache: &stubCache{entries: map[string][]byte{}}}

	boom := errors.New("connection reset")
	calls := 0
	_, err := d.Do(context.Background(), Operation{
		Name: "search",
		Call: func(context.Context, string) ([]byte, error) {
			calls++
			return nil, boom
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want the upstream failure", err)
	}
	if calls != 1 {
		t.Fatalf("upstream called %d times, want 1", calls)
	}

	// Counters only move on a definitive success or rate limit.
	usage := mgr.Status().Entries[0].Usage
	if usage != (domain.UsageStats{}) {
		t.Fatalf("usage mutated by a transport failure: %+v", usage)
	}
}

func TestDoNoUsableKeys(t *testing.T) {
	mgr := newManager(t, "a", "b")
	mgr.MarkInvalid(0)
	mgr.MarkInvalid(1)
	d := &Dispatcher{Keys: mgr, Cache: &stubCache{entries: map[string][]byte{}}}

	calls := 0
	_, err := d.Do(context.Background(), Operation{
		Name: "search",
		Call: func(context.Context, string) ([]byte, error) {
			calls++
			return []byte("ok"), nil
		},
	})
	if !errors.Is(err, domain.ErrAllKeysInvalid) {
		t.Fatalf("error = %v, want ErrAllKeysInvalid", err)
	}
	if calls != 0 {
		t.Fatal("upstream must not be called without a usable key")
	}
}

func TestDoBypassCacheSkipsReadAndWrite(t *testing.T) {
	cache := &stubCache{entries: map[string][]byte{"fp": []byte("cached")}}
	d := &Dispatcher{Keys: newManager(t, "a"), Cache: cache}

	result, err := d.Do(context.Background(), Operation{
		Name:        "search",
		Fingerprint: "fp",
		TTL:         time.Hour,
		BypassCache: true,
		Call: func(context.Context, string) ([]byte, error) {
			return []byte("live"), nil
		},
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.FromCache || string(result.Payload) != "live" {
		t.Fatalf("result = %+v, want live payload", result)
	}
	if cache.reads != 0 {
		t.Fatal("cache consulted despite bypass")
	}
	if string(cache.entries["fp"]) != "cached" {
		t.Fatal("cache overwritten despite bypass")
	}
}

func TestDoPersistsStateOnFailurePath(t *testing.T) {
	dir := t.TempDir()
	mgr := keys.NewManager([]string{"only"}, keys.NewStateStore(dir, nil), nil)
	d := &Dispatcher{Keys: mgr, Cache: &stubCache{entries: map[string][]byte{}}}

	_, err := d.Do(context.Background(), Operation{
		Name: "search",
		Call: func(context.Context, string) ([]byte, error) {
			return nil, &domain.RateLimitError{}
		},
	})
	if err == nil {
		t.Fatal("expected failure")
	}

	reloaded := keys.NewManager([]string{"only"}, keys.NewStateStore(dir, nil), nil)
	usage := reloaded.Status().Entries[0].Usage
	if usage.Requests != 1 || usage.Errors != 1 {
		t.Fatalf("persisted usage = %+v, want requests=1 errors=1", usage)
	}
}

type stubCache struct {
	entries map[string][]byte
	reads   int
}

func (s *stubCache) Read(digest string, ttl time.Duration) ([]byte, bool) {
	s.reads++
	payload, ok := s.entries[digest]
	return payload, ok
}

func (s *stubCache) Write(digest string, payload []byte) {
	s.entries[digest] = payload
}

func (s *stubCache) Entries() ([]domain.CacheEntryInfo, error) { return nil, nil }
func (s *stubCache) Clear() error                              { return nil }
func (s *stubCache) Dir() string                               { return "" }
