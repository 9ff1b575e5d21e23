/*
Package exitintent detects exit intent or prolonged disengagement inside an interactive
client surface and fires a single callback the first time a configured heuristic fires.

Three independent heuristics share one "already triggered" gate and one session
persistence layer:

  - Pointer corner: the pointer enters the top-left or top-right hot zone (desktop).
  - Scroll depth: the document is scrolled past a percentage of its scrollable range.
  - Tab change: the tab is hidden; the document title flashes after a delay and is
    restored when the tab is visible again. This never fires the callback.

The host environment (viewport, document, events, timers and session storage) is injected
through ports.Host, so the engine can run behind a browser bridge, a remote client over
HTTP or the simulated host in pkg/adapters/sim.

# Usage

	host := sim.New(1024, 768, sim.WithTitle("Checkout"))

	eng := exitintent.New(host.Ports(), exitintent.WithLogger(logger))
	handle, err := eng.Activate(ctx, func() {
		fmt.Println("exit intent")
	}, nil) // nil uses domain.DefaultConfig()
	if err != nil {
		log.Fatal(err)
	}
	defer handle.Deactivate()

	host.MovePointer(100, 10) // prints "exit intent"

When options change while mounted, Reconfigure tears the listeners down and attaches them
again under the new configuration without forgetting that the callback already ran.
*/
package exitintent
