package moderation

import (
	"context"
	"fmt"

	"campusmentor/backend/internal/errs"

	"go.uber.org/zap"
)

// Policy decides what happens when the moderation service itself errors.
// Unsafe verdicts always reject, under either policy.
type Policy string

const (
	// PolicyBlocking fails the operation when moderation is unavailable.
	// Used for mentorship request messages.
	PolicyBlocking Policy = "blocking"
	// PolicyAdvisory logs a warning and lets the text through when
	// moderation is unavailable. Used for chat messages.
	PolicyAdvisory Policy = "advisory"
)

// Gate binds a moderation service to one call site's policy. Each call site
// gets its own Gate so the blocking/advisory split stays explicit instead of
// being scattered through the services.
type Gate struct {
	svc    Service
	policy Policy
	log    *zap.Logger
}

func NewGate(svc Service, policy Policy, log *zap.Logger) *Gate {
	return &Gate{svc: svc, policy: policy, log: log}
}

// Check moderates text and applies the gate's policy. It returns
// ContentRejectedError when the service flags the text, a wrapped transport
// error under PolicyBlocking, and nil (after a warning) under PolicyAdvisory.
func (g *Gate) Check(ctx context.Context, text, contextKind string) error {
	result, err := g.svc.Moderate(ctx, text, contextKind)
	if err != nil {
		if g.policy == PolicyAdvisory {
			g.log.Warn("moderation unavailable, letting content through",
				zap.String("context", contextKind),
				zap.Error(err))
			return nil
		}
		return fmt.Errorf("moderation check failed: %w", err)
	}

	if !result.Safe {
		return &errs.ContentRejectedError{Reason: result.Reason}
	}
	return nil
}
