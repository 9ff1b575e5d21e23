// Package runtime implements the exit-intent trigger engine: the one-shot gate, the
// title flasher and the pointer-corner and scroll-depth heuristics, wired to a host
// through an explicit activate/deactivate lifecycle.
//
// An Engine is not safe for concurrent use. The host must serialize event dispatch and
// scheduled callbacks for one Engine, as a browser event loop does.
package runtime
