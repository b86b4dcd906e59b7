// Package ticker guards the one-second tick stream against races at
// cancellation. Ticks are scheduled as messages that come back through
// the event loop, so a tick can already be in flight when the timer
// stops; the guard's generation token lets the loop drop it instead of
// applying it. Invalidation happens before any state mutation, so a
// cancelled tick can never fire.
package ticker

import "time"

// Interval is the nominal tick period. No drift correction: under load
// ticks may coalesce, which the countdown tolerates.
const Interval = time.Second

// Guard hands out generation tokens for tick chains. The zero value is
// ready to use and starts with no chain armed.
type Guard struct {
	gen   int
	armed bool
}

// Arm invalidates any outstanding chain and returns the token for a new
// one. Every scheduled tick carries its token back to Valid.
func (g *Guard) Arm() int {
	g.gen++
	g.armed = true
	return g.gen
}

// Cancel invalidates the current chain. Synchronous: once Cancel
// returns, no tick carrying any previously issued token passes Valid.
func (g *Guard) Cancel() {
	g.armed = false
}

// Valid reports whether a delivered tick belongs to the live chain.
func (g *Guard) Valid(gen int) bool {
	return g.armed && gen == g.gen
}
