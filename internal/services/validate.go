package services

import (
	"context"
	"net/http"

	"github.com/doeshing/exa-go/internal/infrastructure/keys"
	"github.com/doeshing/exa-go/internal/ports"
)

// Validator probes every key against the live API when the rotation state
// has not been validated within the stale threshold. A 401 or 403 marks
// the key invalid; network errors leave it untouched so a flaky link
// cannot disable a healthy pool.
type Validator struct {
	Client ports.UpstreamClient
	Keys   *keys.Manager
	Log    ports.Logger
}

// Run validates the pool if the state is stale, then persists.
func (v *Validator) Run(ctx context.Context) error {
	if v.Client == nil || v.Keys == nil {
		return nil
	}
	if !v.Keys.Stale() {
		return nil
	}
	if v.Log != nil {
		v.Log.Debug("validating API keys (state is stale)", nil)
	}

	for idx := 0; idx < v.Keys.PoolSize(); idx++ {
		key, ok := v.Keys.KeyAt(idx)
		if !ok {
			continue
		}
		status, err := v.Client.Probe(ctx, key)
		if err != nil {
			if v.Log != nil {
				v.Log.Warn("key validation probe failed", map[string]interface{}{
					"key":   keys.Mask(key),
					"error": err.Error(),
				})
			}
			continue
		}
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			v.Keys.MarkInvalid(idx)
		}
	}

	v.Keys.MarkValidated()
	return v.Keys.Persist()
}
