package lexer

// DefaultMaxTokenLength bounds a single token; longer input is rejected.
const DefaultMaxTokenLength = 1 << 20

// DefaultTabWidth is used when Options.TabWidth is zero.
const DefaultTabWidth = 4

// Options tune tokenization.
type Options struct {
	// TabWidth expands tabs when computing columns. Negative disables expansion.
	TabWidth int
	// Fragment starts PHP input in code mode (no <?php required).
	Fragment bool
	// MaxTokenLength caps a single token in bytes; 0 means DefaultMaxTokenLength.
	MaxTokenLength int
}

func (o Options) tabWidth() int {
	switch {
	case o.TabWidth == 0:
		return DefaultTabWidth
	case o.TabWidth < 0:
		return 0
	default:
		return o.TabWidth
	}
}

func (o Options) maxTokenLength() int {
	if o.MaxTokenLength <= 0 {
		return DefaultMaxTokenLength
	}
	return o.MaxTokenLength
}
