// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"log/slog"
	"time"
)

// Gate serializes completion calls across concurrent evaluations.
//
// Description:
//
//	A typical deployment runs one local model instance. When several
//	suggestions are evaluated concurrently, their generation calls must
//	not overlap or the backend thrashes. Gate admits exactly one call at
//	a time; waiters queue on a capacity-1 channel semaphore and are
//	admitted in FIFO order. The slot is released as soon as the in-flight
//	call returns, success or failure.
//
// Thread Safety:
//
//	Gate is safe for concurrent use; that is its purpose.
type Gate struct {
	inner Client
	slot  chan struct{}
}

// Compile-time interface check.
var _ Client = (*Gate)(nil)

// NewGate wraps inner with single-in-flight serialization.
func NewGate(inner Client) *Gate {
	return &Gate{
		inner: inner,
		slot:  make(chan struct{}, 1),
	}
}

// Complete implements Client.
//
// Description:
//
//	Blocks until the gate's single slot is free, then delegates to the
//	wrapped client. Waiting respects ctx: a cancelled caller leaves the
//	queue without ever occupying the slot.
//
// Inputs:
//
//	ctx - Context for cancellation while queued and during the call.
//	prompt - The completion prompt.
//
// Outputs:
//
//	string - The generated text.
//	error - Non-nil on cancellation or backend failure.
func (g *Gate) Complete(ctx context.Context, prompt string) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}

	queuedAt := time.Now()
	select {
	case g.slot <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-g.slot }()

	if wait := time.Since(queuedAt); wait > time.Second {
		slog.Debug("completion call waited for gate",
			slog.Duration("wait", wait),
			slog.String("provider", g.inner.Name()),
		)
	}

	return g.inner.Complete(ctx, prompt)
}

// Name implements Client.
func (g *Gate) Name() string { return g.inner.Name() }

// Model implements Client.
func (g *Gate) Model() string { return g.inner.Model() }
