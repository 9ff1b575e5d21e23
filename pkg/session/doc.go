/*
Package session hosts exit-intent engines on behalf of remote clients.

Each remote session owns a simulated host mirrored from the client's event stream, one
engine and its activation. The Manager serializes everything that touches a session,
including deferred title flashes fired by real timers, with ref-counted per-session
locks, so the engine keeps its single-threaded dispatch model.
*/
package session
