package diag

import (
	"strings"
)

// Code is a dotted, namespaced diagnostic identifier such as
// "PSR1.Classes.ClassDeclaration.MissingNamespace".
type Code string

// EngineRule attributes diagnostics produced by the engine itself.
const EngineRule = "Internal"

const (
	// Tokenizer failures
	TokUnterminatedString   Code = "Internal.Tokenizer.UnterminatedString"
	TokUnterminatedComment  Code = "Internal.Tokenizer.UnterminatedComment"
	TokUnterminatedTemplate Code = "Internal.Tokenizer.UnterminatedTemplate"
	TokUnterminatedHeredoc  Code = "Internal.Tokenizer.UnterminatedHeredoc"
	TokUnterminatedURL      Code = "Internal.Tokenizer.UnterminatedURL"
	TokTokenTooLong         Code = "Internal.Tokenizer.TokenTooLong"
	TokUnknownGrammar       Code = "Internal.Tokenizer.UnknownGrammar"

	// Resolver failures
	ResUnmatchedCloser  Code = "Internal.Resolver.UnmatchedCloser"
	ResMismatchedCloser Code = "Internal.Resolver.MismatchedCloser"
	ResUnclosedOpener   Code = "Internal.Resolver.UnclosedOpener"

	// Dispatcher
	RuleFault          Code = "Internal.RuleFault"
	RuleBudgetExceeded Code = "Internal.RuleBudgetExceeded"

	// Driver
	FileUnreadable Code = "Internal.File.Unreadable"
)

// String returns the code text.
func (c Code) String() string {
	return string(c)
}

// Internal reports whether the code belongs to the engine namespace.
func (c Code) Internal() bool {
	return c == EngineRule || strings.HasPrefix(string(c), EngineRule+".")
}

// Qualify prefixes a rule-local code with the rule id. Codes that already
// carry the rule id, and engine codes, are returned unchanged.
func Qualify(rule string, local Code) Code {
	if rule == "" || local.Internal() || strings.HasPrefix(string(local), rule+".") || string(local) == rule {
		return local
	}
	if local == "" {
		return Code(rule)
	}
	return Code(rule + "." + string(local))
}
