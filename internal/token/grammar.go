package token

import (
	"fmt"
	"strings"
)

// Grammar selects the tokenizer dialect for a file.
type Grammar uint8

const (
	// PHP grammar (inline HTML + <?php code).
	PHP Grammar = iota + 1
	// JS grammar.
	JS
	// CSS grammar.
	CSS
)

// Grammars lists every supported grammar in a stable order.
var Grammars = []Grammar{PHP, JS, CSS}

func (g Grammar) String() string {
	switch g {
	case PHP:
		return "php"
	case JS:
		return "js"
	case CSS:
		return "css"
	default:
		return "unknown"
	}
}

// ParseGrammar converts a grammar name into a Grammar.
func ParseGrammar(s string) (Grammar, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "php":
		return PHP, nil
	case "js", "javascript":
		return JS, nil
	case "css":
		return CSS, nil
	default:
		return 0, fmt.Errorf("unknown grammar %q (expected php|js|css)", s)
	}
}
