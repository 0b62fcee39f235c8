package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineLocator puts token i on line i+1, column 1.
type lineLocator struct{}

func (lineLocator) Location(i int) (int, int) { return i + 1, 1 }

type lineSuppressor map[int]bool

func (s lineSuppressor) Suppressed(line int, _ string) bool { return s[line] }

func TestFileReporterOrdersByPositionThenRuleOrder(t *testing.T) {
	r := NewFileReporter("a.php", lineLocator{}, nil, 0)

	r.Record("B", 1, 2, SevError, "B.X", "b on line 3", false)
	r.Record("A", 0, 2, SevError, "A.X", "a on line 3", false)
	r.Record("B", 1, 0, SevWarning, "B.Y", "b on line 1", true)
	r.Record("A", 0, 2, SevError, "A.Z", "a again on line 3", false)

	got := r.Drain()
	require.Len(t, got, 4)
	assert.Equal(t, []Code{"B.Y", "A.X", "A.Z", "B.X"}, []Code{got[0].Code, got[1].Code, got[2].Code, got[3].Code})
	assert.Equal(t, "a.php", got[0].File)
	assert.Equal(t, Counts{Errors: 3, Warnings: 1, Fixable: 1}, r.Counts())

	assert.Empty(t, r.Drain(), "Drain empties the reporter")
	assert.Equal(t, 3, r.Counts().Errors, "counts survive Drain")
}

func TestFileReporterSuppression(t *testing.T) {
	r := NewFileReporter("a.php", lineLocator{}, lineSuppressor{1: true}, 0)

	assert.False(t, r.Record("A", 0, 0, SevError, "A.X", "hidden", false))
	assert.True(t, r.Record(EngineRule, EngineOrder, 0, SevError, RuleFault, "engine", false))

	got := r.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, RuleFault, got[0].Code)
	assert.Equal(t, 1, r.Counts().Suppressed)
	assert.Equal(t, 1, r.Counts().Errors)
}

func TestFileReporterCap(t *testing.T) {
	r := NewFileReporter("a.php", lineLocator{}, nil, 2)
	for i := 0; i < 5; i++ {
		r.Report(i, SevWarning, "Internal.X", "w", false)
	}
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, Counts{Warnings: 5, Dropped: 3}, r.Counts())
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	r := NewFileReporter("a.php", lineLocator{}, nil, 0)
	b := ReportError(r, 4, "A.B", "msg").Fixable()
	b.Emit()
	b.Emit()

	got := r.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Line)
	assert.True(t, got[0].Fixable)
	assert.Equal(t, SevError, got[0].Severity)
}

func TestQualify(t *testing.T) {
	assert.Equal(t, Code("Generic.Arrays.X.Found"), Qualify("Generic.Arrays.X", "Found"))
	assert.Equal(t, Code("Generic.Arrays.X.Found"), Qualify("Generic.Arrays.X", "Generic.Arrays.X.Found"))
	assert.Equal(t, RuleFault, Qualify("Generic.Arrays.X", RuleFault))
	assert.Equal(t, Code("R"), Qualify("R", ""))
}

func TestTallyAndDiff(t *testing.T) {
	ds := []Diagnostic{
		{Line: 2, Severity: SevError},
		{Line: 3, Severity: SevError},
		{Line: 3, Severity: SevError},
		{Line: 3, Severity: SevWarning},
	}
	got := Tally(ds)
	assert.Equal(t, LineCounts{2: 1, 3: 2}, got.Errors)
	assert.Equal(t, LineCounts{3: 1}, got.Warnings)

	assert.Empty(t, Diff(Expectation{Errors: LineCounts{2: 1, 3: 2}, Warnings: LineCounts{3: 1}}, got))
	assert.Equal(t, []string{"errors on line 2: want 2, got 1", "warnings on line 3: want 0, got 1"},
		Diff(Expectation{Errors: LineCounts{2: 2, 3: 2}}, got))
}

func TestSeverityText(t *testing.T) {
	b, err := SevWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(b))

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("ERROR")))
	assert.Equal(t, SevError, s)
	assert.Error(t, s.UnmarshalText([]byte("info")))
}

func TestBagLimitAndHiddenWarnings(t *testing.T) {
	ds := []Diagnostic{
		{File: "a.php", Line: 1, Severity: SevWarning},
		{File: "a.php", Line: 2, Severity: SevError},
		{File: "a.php", Line: 3, Severity: SevWarning},
		{File: "a.php", Line: 4, Severity: SevError},
	}

	b := NewBag(0)
	b.AddVisible(ds, false)
	assert.Equal(t, 4, b.Len())
	assert.Zero(t, b.Dropped())

	b = NewBag(1)
	b.AddVisible(ds, true)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, 2, b.Items()[0].Line)
	assert.Equal(t, 1, b.Dropped(), "hidden warnings are not dropped")
	assert.False(t, b.Add(ds[3]))
	assert.Equal(t, 2, b.Dropped())
}
