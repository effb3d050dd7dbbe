package headless

// frameBudget stops an offscreen run after a fixed number of presented
// frames. A max of zero never runs out.
type frameBudget struct {
	max       int
	presented int
}

func (b *frameBudget) present() {
	b.presented++
}

func (b *frameBudget) exhausted() bool {
	return b.max > 0 && b.presented >= b.max
}
