// Package resolve computes the structure of a token stream: bracket pairs,
// parenthesis owners, scopes and nesting levels.
package resolve

import "tokensniff/internal/token"

// Resolve annotates s in place. It fails only when brackets do not pair;
// the stream must then be discarded.
func Resolve(s *token.Stream) error {
	enclosing, err := pairBrackets(s)
	if err != nil {
		return err
	}
	assignParenOwners(s)
	buildScopes(s, enclosing)
	annotateScopes(s)
	assignLevels(s)
	markShortArrays(s)
	return nil
}
