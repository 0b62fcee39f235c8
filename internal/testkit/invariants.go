package testkit

import (
	"fmt"

	"tokensniff/internal/token"
)

// CheckStreamInvariants runs the structural invariants on a resolved stream:
// 1) token indexes are positions and tokens are in source order
// 2) bracket links are symmetric and point at the right closer kind
// 3) levels never go negative and the last token is at level 0
// 4) every scope lies inside the stream with opener < closer
func CheckStreamInvariants(s *token.Stream) error {
	if s == nil {
		return fmt.Errorf("nil stream")
	}
	toks := s.Tokens

	// 1) порядок
	for i, t := range toks {
		if t.Index != i {
			return fmt.Errorf("token %d has index %d", i, t.Index)
		}
		if i > 0 && t.Span.Start < toks[i-1].Span.End {
			return fmt.Errorf("token %d starts at %d before the end of token %d (%d)", i, t.Span.Start, i-1, toks[i-1].Span.End)
		}
	}

	// 2) симметрия скобок
	for i, t := range toks {
		switch {
		case t.Kind.IsOpener():
			c := t.BracketCloser
			if c <= i || c >= len(toks) {
				return fmt.Errorf("opener %d (%s) has closer %d", i, t.Kind, c)
			}
			if toks[c].BracketOpener != i {
				return fmt.Errorf("closer %d points to %d, want %d", c, toks[c].BracketOpener, i)
			}
			if toks[c].Kind != token.CloserFor(t.Kind) {
				return fmt.Errorf("opener %d (%s) closed by %s", i, t.Kind, toks[c].Kind)
			}
		case t.Kind.IsCloser():
			o := t.BracketOpener
			if o < 0 || o >= i || toks[o].BracketCloser != i {
				return fmt.Errorf("closer %d (%s) has opener %d", i, t.Kind, o)
			}
		}
	}

	// 3) уровни
	for i, t := range toks {
		if t.Level < 0 {
			return fmt.Errorf("token %d has negative level %d", i, t.Level)
		}
	}
	if n := len(toks); n > 0 && toks[n-1].Level != 0 {
		return fmt.Errorf("last token has level %d, want 0", toks[n-1].Level)
	}

	// 4) области
	for id, sc := range s.Scopes {
		if sc.ID != id {
			return fmt.Errorf("scope %d has id %d", id, sc.ID)
		}
		if sc.Opener >= sc.Closer || sc.Closer >= len(toks) || sc.Owner < 0 || sc.Owner > sc.Opener {
			return fmt.Errorf("scope %d (%s) has bounds owner=%d opener=%d closer=%d", id, sc.Kind, sc.Owner, sc.Opener, sc.Closer)
		}
		if sc.Parent != token.None {
			p := s.Scopes[sc.Parent]
			if sc.Opener < p.Opener || sc.Closer > p.Closer {
				return fmt.Errorf("scope %d is not inside its parent %d", id, sc.Parent)
			}
		}
	}
	return nil
}
