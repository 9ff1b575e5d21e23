/*
Package ports defines the driven ports (interfaces) for the exit-intent engine.

These interfaces decouple the core logic from the host environment, allowing the engine
to run against a browser bridge, a remote client over HTTP, or a simulated host in tests.

# Key Interfaces

  - Viewport: Live viewport dimensions.
  - Document: Scroll metrics, visibility and the mutable title slot.
  - EventTarget: Listener registration for pointer, scroll and visibility events.
  - Scheduler: Deferred callbacks with cancellation.
  - SessionStore: Session-scoped key/value persistence for the trigger marker.

A Host bundles them. Any field may be nil; the engine probes capabilities once per
activation and disables the features that depend on a missing one.
*/
package ports
