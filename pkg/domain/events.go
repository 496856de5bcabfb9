package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventDepth    EventType = "depth"
	EventHalt     EventType = "halt"
)

// HaltReason explains why a run stopped.
type HaltReason string

const (
	HaltAccepted   HaltReason = "accepted"       // an accept-state configuration was dequeued
	HaltExhausted  HaltReason = "frontier_empty" // no live configuration left
	HaltDepthBound HaltReason = "depth_bound"    // max depth rounds completed
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Machine   string    `json:"machine"`
}

// RunEvent is emitted once before the first depth round.
type RunEvent struct {
	EventBase
	Input    string `json:"input"`
	MaxDepth int    `json:"max_depth"`
}

// DepthEvent is emitted after each processed depth round.
type DepthEvent struct {
	EventBase
	Depth          int `json:"depth"`
	Configurations int `json:"configurations"` // recorded at this depth
	Frontier       int `json:"frontier"`       // queued for the next depth
	Transitions    int `json:"transitions"`    // cumulative
}

// HaltEvent is emitted once when a run terminates without error.
type HaltEvent struct {
	EventBase
	Depth       int        `json:"depth"`
	Accepted    bool       `json:"accepted"`
	Transitions int        `json:"transitions"`
	Reason      HaltReason `json:"reason"`
}

// LifecycleHooks defines callbacks for explorer observability.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnDepth    func(context.Context, *DepthEvent)
	OnHalt     func(context.Context, *HaltEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chain(h.OnRunStart, other.OnRunStart),
		OnDepth:    chain(h.OnDepth, other.OnDepth),
		OnHalt:     chain(h.OnHalt, other.OnHalt),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
