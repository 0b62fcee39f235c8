package diag

// Reporter is the rule-facing contract: diagnostics are anchored at a token
// index and positioned by the receiver.
type Reporter interface {
	Report(i int, sev Severity, code Code, msg string, fixable bool)
}

// NopReporter drops everything.
type NopReporter struct{}

// Report implements Reporter.
func (NopReporter) Report(int, Severity, Code, string, bool) {}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	index    int
	sev      Severity
	code     Code
	msg      string
	fixable  bool
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, i int, sev Severity, code Code, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		index:    i,
		sev:      sev,
		code:     code,
		msg:      msg,
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, i int, code Code, msg string) *ReportBuilder {
	return NewReportBuilder(r, i, SevError, code, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, i int, code Code, msg string) *ReportBuilder {
	return NewReportBuilder(r, i, SevWarning, code, msg)
}

// Fixable marks the diagnostic as mechanically fixable.
func (b *ReportBuilder) Fixable() *ReportBuilder {
	if b == nil {
		return nil
	}
	b.fixable = true
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.index, b.sev, b.code, b.msg, b.fixable)
	}
	b.emitted = true
}
