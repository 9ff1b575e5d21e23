package runtime

import (
	"context"

	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/ports"
)

// titleFlasher swaps the document title while the tab is hidden.
// It runs regardless of the gate.
type titleFlasher struct {
	state *State
	doc   ports.Document
	sched ports.Scheduler
	cfg   domain.TabChangeConfig
	ctx   context.Context

	viewport  func() domain.ViewportClass
	onFlash   func(title string)
	onRestore func(title string)
	cancel    func()
	guard     func(handler string, fn func())
}

func (f *titleFlasher) handleVisibility() {
	if !f.doc.Hidden() {
		f.cancel()
		f.doc.SetTitle(f.state.originalTitle)
		f.onRestore(f.state.originalTitle)
		return
	}

	// Eligibility uses the live width, not the width at activation.
	if !f.cfg.Enabled(f.viewport()) {
		return
	}
	f.schedule()
}

// schedule replaces any pending flash with a fresh one.
func (f *titleFlasher) schedule() {
	f.cancel()
	gen := f.state.timerGen
	title := f.cfg.Title

	f.state.stopTimer = f.sched.AfterFunc(f.cfg.Delay(), func() {
		if f.ctx.Err() != nil || f.state.timerGen != gen {
			return
		}
		f.state.stopTimer = nil
		f.guard("title_flash", func() {
			f.doc.SetTitle(title)
			f.onFlash(title)
		})
	})
}
