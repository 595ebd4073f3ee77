// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry provides the structured log sink consumed by the
// evaluation pipeline and the dashboard.
//
// Sinks are fire-and-forget: a sink failure is logged and swallowed,
// never surfaced to the pipeline. CompositeSink fans out to several
// sinks; NoOpSink disables telemetry entirely.
package telemetry

import (
	"log/slog"
	"sync"
	"time"
)

// Message direction constants.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Record is one telemetry entry: a message crossing the pipeline
// boundary in either direction.
type Record struct {
	Timestamp   time.Time      `json:"timestamp"`
	Direction   string         `json:"direction"`
	MessageType string         `json:"message_type"`
	Content     map[string]any `json:"content"`
}

// Sink receives pipeline telemetry records.
//
// Description:
//
//	LogMessage must never block for long and must never panic into the
//	caller; implementations swallow their own failures. The pipeline
//	calls it on every boundary crossing (prompt out, generation in,
//	evaluation out).
//
// Thread Safety:
//
//	Implementations must be safe for concurrent use.
type Sink interface {
	LogMessage(direction, messageType string, content map[string]any)
}

// =============================================================================
// Slog sink
// =============================================================================

// SlogSink writes records to a structured logger.
type SlogSink struct {
	logger *slog.Logger
}

var _ Sink = (*SlogSink)(nil)

// NewSlogSink builds a sink over logger; nil means slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// LogMessage implements Sink.
func (s *SlogSink) LogMessage(direction, messageType string, content map[string]any) {
	s.logger.Info("pipeline message",
		slog.String("direction", direction),
		slog.String("message_type", messageType),
		slog.Any("content", content),
	)
}

// =============================================================================
// Memory sink
// =============================================================================

// MemorySink retains recent records in memory for the dashboard and
// for tests. Oldest records are dropped past the cap.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
	cap     int
}

var _ Sink = (*MemorySink)(nil)

// NewMemorySink builds a sink retaining up to capacity records;
// capacity <= 0 defaults to 1000.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemorySink{cap: capacity}
}

// LogMessage implements Sink.
func (m *MemorySink) LogMessage(direction, messageType string, content map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, Record{
		Timestamp:   time.Now(),
		Direction:   direction,
		MessageType: messageType,
		Content:     content,
	})
	if len(m.records) > m.cap {
		m.records = m.records[len(m.records)-m.cap:]
	}
}

// Records returns a copy of the retained records, oldest first.
func (m *MemorySink) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// =============================================================================
// Composite and no-op sinks
// =============================================================================

// CompositeSink fans records out to several sinks.
type CompositeSink struct {
	sinks []Sink
}

var _ Sink = (*CompositeSink)(nil)

// NewCompositeSink builds a fan-out sink; nil members are skipped.
func NewCompositeSink(sinks ...Sink) *CompositeSink {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &CompositeSink{sinks: kept}
}

// LogMessage implements Sink.
func (c *CompositeSink) LogMessage(direction, messageType string, content map[string]any) {
	for _, s := range c.sinks {
		s.LogMessage(direction, messageType, content)
	}
}

// NoOpSink discards all records.
type NoOpSink struct{}

var _ Sink = (*NoOpSink)(nil)

// LogMessage implements Sink.
func (NoOpSink) LogMessage(direction, messageType string, content map[string]any) {}
