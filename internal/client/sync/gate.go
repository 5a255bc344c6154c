package sync

import "sync/atomic"

// gate hands out generation tokens for a sync scope. A fetch captures the
// token before going to the network; if the scope is invalidated while the
// fetch is in flight, the token goes stale and the commit is skipped.
type gate struct {
	gen atomic.Uint64
}

// Token marks one point in a scope's generation sequence.
type Token struct {
	g   *gate
	gen uint64
}

func (g *gate) current() Token {
	return Token{g: g, gen: g.gen.Load()}
}

func (g *gate) bump() {
	g.gen.Add(1)
}

// Valid reports whether no invalidation happened since the token was taken.
// The zero Token is always valid, for callers that do not track generations.
func (t Token) Valid() bool {
	if t.g == nil {
		return true
	}
	return t.g.gen.Load() == t.gen
}
