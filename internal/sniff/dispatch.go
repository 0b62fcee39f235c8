package sniff

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/go-logr/logr"

	"tokensniff/internal/diag"
	"tokensniff/internal/token"
)

// checkEvery is how many tokens pass between cancellation checks.
const checkEvery = 256

// Options tune a Dispatcher.
type Options struct {
	// RuleBudget caps the cumulative time one rule may spend on one file;
	// zero disables the guard.
	RuleBudget time.Duration
}

// Sink receives diagnostics attributed to a rule. *diag.FileReporter
// implements it.
type Sink interface {
	Record(rule string, order, i int, sev diag.Severity, code diag.Code, msg string, fixable bool) bool
}

// FaultError wraps a panic recovered from a rule.
type FaultError struct {
	Rule  string
	Value any
	Stack []byte
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("rule %s panicked: %v", e.Rule, e.Value)
}

// Stats summarizes one dispatch.
type Stats struct {
	Calls    int
	Faults   map[string]int
	Disabled []string
	Spent    map[string]time.Duration
}

// Dispatcher runs a registry over streams. It is safe for concurrent use;
// all per-file state lives in Run.
type Dispatcher struct {
	reg  *Registry
	opts Options
}

// NewDispatcher binds reg and opts.
func NewDispatcher(reg *Registry, opts Options) *Dispatcher {
	return &Dispatcher{reg: reg, opts: opts}
}

// Registry returns the registry the dispatcher runs.
func (d *Dispatcher) Registry() *Registry { return d.reg }

type ruleState struct {
	disabled bool
	spent    time.Duration
}

// Run walks s once, left to right. For each token every rule interested in
// its kind runs in registration order. Rule faults are reported and never
// returned; the only error is ctx.Err().
func (d *Dispatcher) Run(ctx context.Context, s *token.Stream, sink Sink) (Stats, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("file", s.Path())
	v := token.NewView(s)
	states := make([]ruleState, len(d.reg.handles))
	stats := Stats{}
	reporters := make([]*ruleReporter, len(d.reg.handles))

	for i := range s.Tokens {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
		for _, h := range d.reg.interested(s.Grammar, s.Tokens[i].Kind) {
			st := &states[h.order]
			if st.disabled {
				continue
			}
			rr := reporters[h.order]
			if rr == nil {
				rr = &ruleReporter{sink: sink, h: h}
				reporters[h.order] = rr
			}

			start := time.Now()
			err := invoke(h, v, i, rr)
			st.spent += time.Since(start)
			stats.Calls++

			switch {
			case err == nil:
			case errors.Is(err, ErrSkipFile):
				st.disabled = true
			default:
				st.disabled = true
				stats.fault(h.id)
				var fe *FaultError
				if errors.As(err, &fe) {
					log.Error(err, "rule fault", "rule", h.id, "index", i, "stack", string(fe.Stack))
				} else {
					log.Error(err, "rule fault", "rule", h.id, "index", i)
				}
				sink.Record(h.id, h.order, i, diag.SevError, diag.RuleFault,
					fmt.Sprintf("Rule %s failed and was disabled for this file: %v", h.id, err), false)
			}

			if !st.disabled && d.opts.RuleBudget > 0 && st.spent > d.opts.RuleBudget {
				st.disabled = true
				stats.Disabled = append(stats.Disabled, h.id)
				log.V(1).Info("rule over budget", "rule", h.id, "spent", st.spent)
				sink.Record(h.id, h.order, i, diag.SevWarning, diag.RuleBudgetExceeded,
					fmt.Sprintf("Rule %s exceeded its budget of %s and was disabled for this file", h.id, d.opts.RuleBudget), false)
			}
		}
	}

	stats.Spent = make(map[string]time.Duration, len(states))
	for _, h := range d.reg.handles {
		if sp := states[h.order].spent; sp > 0 {
			stats.Spent[h.id] = sp
		}
	}
	return stats, nil
}

func (s *Stats) fault(rule string) {
	if s.Faults == nil {
		s.Faults = make(map[string]int)
	}
	s.Faults[rule]++
}

// invoke calls the rule, converting a panic into a *FaultError.
func invoke(h *handle, v *token.View, i int, r diag.Reporter) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &FaultError{Rule: h.id, Value: p, Stack: debug.Stack()}
		}
	}()
	return h.run(v, i, r)
}

// ruleReporter qualifies codes with the rule id and applies the
// configured severity.
type ruleReporter struct {
	sink Sink
	h    *handle
}

func (r *ruleReporter) Report(i int, sev diag.Severity, code diag.Code, msg string, fixable bool) {
	code = diag.Qualify(r.h.id, code)
	if r.h.severity != 0 && !code.Internal() {
		sev = r.h.severity
	}
	r.sink.Record(r.h.id, r.h.order, i, sev, code, msg, fixable)
}
