package runtime

import "github.com/aretw0/exitintent/pkg/domain"

func (a *Activation) onPointerMove(ev domain.Event) {
	class := a.viewportClass()
	if class != domain.Desktop {
		return
	}
	if inCornerZone(ev.X, ev.Y, a.width()) {
		a.fire(domain.HeuristicPointerCorner, class)
	}
}

func (a *Activation) onScroll(domain.Event) {
	class := a.viewportClass()
	if !a.cfg.TriggerScroll.Enabled(class) {
		return
	}
	doc := a.engine.host.Document
	pct, ok := scrollPercent(doc.ScrollTop(), doc.ScrollHeight(), a.engine.host.Viewport.Height())
	if ok && pct >= a.cfg.TriggerScroll.PercentThreshold {
		a.fire(domain.HeuristicScrollDepth, class)
	}
}

// inCornerZone reports whether (x, y) lies in the top-left or top-right hot zone.
func inCornerZone(x, y, width float64) bool {
	if y > domain.CornerZoneHeight {
		return false
	}
	return x <= domain.CornerZoneWidth || width-x <= domain.CornerZoneWidth
}

// scrollPercent returns how far the document is scrolled, in percent of its scrollable
// range. ok is false when the document cannot scroll.
func scrollPercent(scrollTop, scrollHeight, viewportHeight float64) (pct float64, ok bool) {
	scrollable := scrollHeight - viewportHeight
	if scrollable <= 0 {
		return 0, false
	}
	return scrollTop / scrollable * 100, true
}
