package sniff

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"tokensniff/internal/diag"
	"tokensniff/internal/pattern"
	"tokensniff/internal/token"
)

// Override adjusts a rule's diagnostics from configuration.
type Override struct {
	Severity   diag.Severity // 0 keeps the rule's severity
	Properties map[string]any
}

// handle is the dispatcher's opaque view of one registered rule.
type handle struct {
	id       string
	order    int
	kind     RuleKind
	grammars [len(grammarSlots)]bool
	severity diag.Severity
	run      func(v *token.View, i int, r diag.Reporter) error
	info     Info
}

var grammarSlots = [...]token.Grammar{0, token.PHP, token.JS, token.CSS}

// Registry is the immutable, shared set of rules of a run.
type Registry struct {
	handles []*handle
	byKind  [len(grammarSlots)][token.KindCount][]*handle
	print   string
}

// Len returns the number of registered rules.
func (r *Registry) Len() int { return len(r.handles) }

// Rules describes the registered rules in registration order.
func (r *Registry) Rules() []Info {
	out := make([]Info, len(r.handles))
	for i, h := range r.handles {
		out[i] = h.info
	}
	return out
}

// Has reports whether a rule id is registered.
func (r *Registry) Has(id string) bool {
	for _, h := range r.handles {
		if h.id == id {
			return true
		}
	}
	return false
}

// Fingerprint identifies the rule set and its configuration; cached results
// are only valid for an equal fingerprint.
func (r *Registry) Fingerprint() string { return r.print }

func (r *Registry) interested(g token.Grammar, k token.Kind) []*handle {
	if int(g) >= len(grammarSlots) {
		return nil
	}
	return r.byKind[g][k]
}

// Builder collects rules and freezes them into a Registry.
type Builder struct {
	rules     []Rule
	seen      map[string]struct{}
	overrides map[string]Override
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		seen:      make(map[string]struct{}),
		overrides: make(map[string]Override),
	}
}

// Add registers rules in order. A rule id registered twice keeps its first
// registration.
func (b *Builder) Add(rules ...Rule) *Builder {
	for _, r := range rules {
		if _, dup := b.seen[r.ID()]; dup {
			continue
		}
		b.seen[r.ID()] = struct{}{}
		b.rules = append(b.rules, r)
	}
	return b
}

// Override sets configuration for a rule id.
func (b *Builder) Override(id string, o Override) *Builder {
	b.overrides[id] = o
	return b
}

// Build configures the rules, compiles patterns for every grammar a rule
// supports and returns the frozen registry.
func (b *Builder) Build() (*Registry, error) {
	reg := &Registry{}
	sum := sha256.New()
	for order, r := range b.rules {
		id := r.ID()
		if id == "" {
			return nil, fmt.Errorf("rule #%d has an empty id", order)
		}
		o := b.overrides[id]
		if len(o.Properties) > 0 {
			c, ok := r.(Configurable)
			if !ok {
				return nil, fmt.Errorf("rule %s: does not accept properties", id)
			}
			if err := c.Configure(o.Properties); err != nil {
				return nil, fmt.Errorf("rule %s: %w", id, err)
			}
		}

		h := &handle{id: id, order: order, severity: o.Severity}
		grammars := token.Grammars
		if f, ok := r.(GrammarFilter); ok {
			grammars = f.Grammars()
		}
		for _, g := range grammars {
			if int(g) <= 0 || int(g) >= len(grammarSlots) {
				return nil, fmt.Errorf("rule %s: unknown grammar %d", id, g)
			}
			h.grammars[g] = true
		}

		var interest [len(grammarSlots)]token.KindSet
		switch r := r.(type) {
		case Listener:
			h.kind = KindListener
			h.run = r.Process
			for _, g := range grammars {
				interest[g] = r.Interest()
			}
		case PatternRule:
			h.kind = KindPattern
			sets, err := compileSets(r.Patterns(), grammars)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", id, err)
			}
			h.run = func(v *token.View, i int, rep diag.Reporter) error {
				sets[v.Grammar()].Check(v, i, rep)
				return nil
			}
			for _, g := range grammars {
				interest[g] = sets[g].Triggers()
			}
		default:
			return nil, fmt.Errorf("rule %s: neither a listener nor a pattern rule", id)
		}

		h.info = Info{ID: id, Kind: h.kind, KindName: h.kind.String(), Grammars: grammars, Severity: o.Severity}
		if d, ok := r.(Describer); ok {
			h.info.Description = d.Description()
		}
		for _, g := range grammars {
			for _, k := range interest[g].Kinds() {
				reg.byKind[g][k] = append(reg.byKind[g][k], h)
			}
		}
		reg.handles = append(reg.handles, h)
		fmt.Fprintf(sum, "%s|%d|%s\n", id, o.Severity, propsKey(o.Properties))
	}
	reg.print = hex.EncodeToString(sum.Sum(nil))
	return reg, nil
}

func compileSets(specs []PatternSpec, grammars []token.Grammar) ([len(grammarSlots)]*pattern.Set, error) {
	var sets [len(grammarSlots)]*pattern.Set
	if len(specs) == 0 {
		return sets, fmt.Errorf("no patterns")
	}
	for _, g := range grammars {
		set := pattern.NewSet(g)
		for _, spec := range specs {
			p, err := pattern.Compile(spec.Pattern, g)
			if err != nil {
				return sets, fmt.Errorf("%s: %w", g, err)
			}
			p.Code = spec.Code
			if spec.Severity != 0 {
				p.Severity = spec.Severity
			}
			if err := set.Add(p); err != nil {
				return sets, err
			}
		}
		sets[g] = set
	}
	return sets, nil
}

// propsKey renders properties in a stable order.
func propsKey(props map[string]any) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += fmt.Sprintf("%s=%v;", k, props[k])
	}
	return out
}
