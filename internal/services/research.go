package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/ports"
)

// ResearchService drives the asynchronous research flow: create the task
// through the dispatcher, then poll its status with the key that created
// it until a terminal state or the overall timeout.
type ResearchService struct {
	Dispatcher *Dispatcher
	Client     ports.UpstreamClient
	Keys       ports.KeyRotator
	Log        ports.Logger

	PollInterval time.Duration
	Timeout      time.Duration

	// Progress is called once per pending poll so the CLI can show
	// liveness; nil disables it.
	Progress func()
}

// Run creates a research task and blocks until it completes, fails, is
// canceled, or the timeout elapses. Polling never awards partial rotation
// credit: only a definitive poll outcome touches the key's counters.
func (s *ResearchService) Run(ctx context.Context, req domain.ResearchRequest) (domain.ResearchStatus, error) {
	if s.Dispatcher == nil || s.Client == nil || s.Keys == nil {
		return domain.ResearchStatus{}, errors.New("services.ResearchService dependencies not satisfied")
	}

	// Task creation is never cached.
	result, err := s.Dispatcher.Do(ctx, Operation{
		Name: "research",
		Call: func(ctx context.Context, key string) ([]byte, error) {
			return s.Client.ResearchCreate(ctx, key, req)
		},
	})
	if err != nil {
		return domain.ResearchStatus{}, err
	}

	var created domain.ResearchCreateResponse
	if err := json.Unmarshal(result.Payload, &created); err != nil {
		return domain.ResearchStatus{}, fmt.Errorf("parse research create response: %w", err)
	}
	if created.ResearchID == "" {
		return domain.ResearchStatus{}, errors.New("research create response carried no task id")
	}

	// Poll with the key that created the task; some backends scope task
	// visibility to the creating credential.
	key, ok := s.Keys.KeyAt(result.KeyIndex)
	if !ok {
		return domain.ResearchStatus{}, fmt.Errorf("key index %d vanished from the pool", result.KeyIndex)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultResearchTimeout
	}
	interval := s.PollInterval
	if interval <= 0 {
		interval = domain.ResearchPollInterval
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return s.poll(ctx, key, result.KeyIndex, created.ResearchID, interval)
}

func (s *ResearchService) poll(ctx context.Context, key string, keyIdx int, id string, interval time.Duration) (domain.ResearchStatus, error) {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return domain.ResearchStatus{}, fmt.Errorf("research %s: %w", id, ctx.Err())
		case <-timer.C:
		}

		payload, err := s.Client.ResearchStatus(ctx, key, id)
		if err != nil {
			var rl *domain.RateLimitError
			if errors.As(err, &rl) {
				// Stay on the pinned key; the overall timeout bounds us.
				s.Keys.RecordRateLimited(keyIdx, rl.RetryAfter)
				s.persist()
				timer.Reset(interval)
				continue
			}
			s.persist()
			return domain.ResearchStatus{}, err
		}
		s.Keys.RecordSuccess(keyIdx)

		var status domain.ResearchStatus
		if err := json.Unmarshal(payload, &status); err != nil {
			s.persist()
			return domain.ResearchStatus{}, fmt.Errorf("parse research status: %w", err)
		}

		switch status.Status {
		case domain.ResearchCompleted:
			s.persist()
			return status, nil
		case domain.ResearchFailed:
			s.persist()
			reason := status.Error
			if reason == "" {
				reason = "unknown error"
			}
			return status, fmt.Errorf("research task failed: %s", reason)
		case domain.ResearchCanceled:
			s.persist()
			return status, errors.New("research task was canceled")
		default:
			if s.Progress != nil {
				s.Progress()
			}
			timer.Reset(interval)
		}
	}
}

func (s *ResearchService) persist() {
	if err := s.Keys.Persist(); err != nil && s.Log != nil {
		s.Log.Warn("persist rotation state failed", map[string]interface{}{"error": err.Error()})
	}
}
