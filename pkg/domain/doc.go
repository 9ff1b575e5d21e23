/*
Package domain contains the core domain models for the exit-intent engine.

It defines the configuration surface, the viewport classification, the host events the
heuristics react to and the lifecycle events emitted for observability. This package is
kept pure and free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Config: Immutable options supplied once per activation (scroll, pointer, tab change).
  - ViewportClass: Mobile or Desktop, derived from the live viewport width.
  - Event: A host event delivered to the engine (pointer move, scroll, visibility change).
  - LifecycleHooks: Callbacks for activation, triggers and title changes.
*/
package domain
