package domain

import (
	"context"
	"time"
)

// EventKind names a host event the engine can listen to.
type EventKind string

const (
	EventPointerMove      EventKind = "pointermove"
	EventScroll           EventKind = "scroll"
	EventVisibilityChange EventKind = "visibilitychange"
)

// Event is a host event delivered to a listener.
// X and Y are viewport coordinates and are only meaningful for EventPointerMove.
type Event struct {
	Kind EventKind `json:"kind" yaml:"kind"`
	X    float64   `json:"x,omitempty" yaml:"x,omitempty"`
	Y    float64   `json:"y,omitempty" yaml:"y,omitempty"`
}

// LifecycleType defines the category of a lifecycle event.
type LifecycleType string

const (
	LifecycleActivate     LifecycleType = "activate"
	LifecycleDeactivate   LifecycleType = "deactivate"
	LifecycleTrigger      LifecycleType = "trigger"
	LifecycleTitleFlash   LifecycleType = "title_flash"
	LifecycleTitleRestore LifecycleType = "title_restore"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      LifecycleType `json:"type"`
}

// ActivationEvent describes an activation or deactivation.
type ActivationEvent struct {
	EventBase
	// Attached lists the listeners registered by the activation.
	Attached []EventKind `json:"attached"`
	// Satisfied is true when the gate was already satisfied at activation time.
	Satisfied bool `json:"satisfied"`
}

// TriggerEvent describes the one time the gate let a heuristic through.
type TriggerEvent struct {
	EventBase
	Heuristic Heuristic     `json:"heuristic"`
	Viewport  ViewportClass `json:"viewport"`
}

// TitleEvent describes a document title change made by the engine.
type TitleEvent struct {
	EventBase
	Title string `json:"title"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnActivate     func(context.Context, *ActivationEvent)
	OnDeactivate   func(context.Context, *ActivationEvent)
	OnTrigger      func(context.Context, *TriggerEvent)
	OnTitleFlash   func(context.Context, *TitleEvent)
	OnTitleRestore func(context.Context, *TitleEvent)
}
