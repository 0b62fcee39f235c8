package diag

// Diagnostic is one finding at a precise position. It is immutable once
// recorded.
type Diagnostic struct {
	File     string   `json:"file" msgpack:"file"`
	Line     int      `json:"line" msgpack:"line"`
	Column   int      `json:"column" msgpack:"column"`
	Code     Code     `json:"code" msgpack:"code"`
	Message  string   `json:"message" msgpack:"message"`
	Severity Severity `json:"severity" msgpack:"severity"`
	Fixable  bool     `json:"fixable" msgpack:"fixable"`
	Rule     string   `json:"rule" msgpack:"rule"`
}

// Counts summarizes the diagnostics of one file or one run.
type Counts struct {
	Errors     int `json:"errors" msgpack:"errors"`
	Warnings   int `json:"warnings" msgpack:"warnings"`
	Fixable    int `json:"fixable" msgpack:"fixable"`
	Suppressed int `json:"suppressed" msgpack:"suppressed"`
	Dropped    int `json:"dropped" msgpack:"dropped"`
}

// Add accumulates o into c.
func (c *Counts) Add(o Counts) {
	c.Errors += o.Errors
	c.Warnings += o.Warnings
	c.Fixable += o.Fixable
	c.Suppressed += o.Suppressed
	c.Dropped += o.Dropped
}

// Total returns errors plus warnings.
func (c Counts) Total() int {
	return c.Errors + c.Warnings
}

func (c *Counts) count(sev Severity, fixable bool) {
	switch sev {
	case SevError:
		c.Errors++
	case SevWarning:
		c.Warnings++
	}
	if fixable {
		c.Fixable++
	}
}
