package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tokensniff/internal/driver"
)

// maxListed caps the per-file rows; longer runs only show the active ones.
const maxListed = 12

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
	errors  int
}

type fileItem struct {
	path   string
	status string
	stage  driver.Stage
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders analysis
// progress. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: string(driver.ProgressQueued)})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = max(10, msg.Width-4)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	finished := m.finished()
	header := fmt.Sprintf("%s %d/%d", m.title, finished, len(m.items))
	if m.errors > 0 {
		header = fmt.Sprintf("%s, %d not analyzed", header, m.errors)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(20, m.width-statusWidth-4)
	for _, item := range m.visibleItems() {
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		b.WriteString("  ")
		b.WriteString(statusStyled)
		b.WriteByte(' ')
		b.WriteString(truncate(item.path, nameWidth))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// visibleItems keeps small runs whole; larger ones list working files
// first, then the latest finished ones.
func (m *progressModel) visibleItems() []fileItem {
	if len(m.items) <= maxListed {
		return m.items
	}
	out := make([]fileItem, 0, maxListed)
	for _, item := range m.items {
		if isActive(item.status) && len(out) < maxListed {
			out = append(out, item)
		}
	}
	for i := len(m.items) - 1; i >= 0 && len(out) < maxListed; i-- {
		if item := m.items[i]; isFinal(item.status) {
			out = append(out, item)
		}
	}
	return out
}

func (m *progressModel) finished() int {
	n := 0
	for _, item := range m.items {
		if isFinal(item.status) {
			n++
		}
	}
	return n
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	label := statusLabel(ev.Stage, ev.Progress)
	if label == "" {
		return nil
	}
	if label == string(driver.ProgressError) && m.items[idx].status != label {
		m.errors++
	}
	m.items[idx].status = label
	if ev.Stage != "" {
		m.items[idx].stage = ev.Stage
	}

	total := 0.0
	for _, item := range m.items {
		if isFinal(item.status) {
			total += 1.0
		} else {
			total += progressFromStage(item.stage)
		}
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromStage(stage driver.Stage) float64 {
	switch stage {
	case driver.StageRead:
		return 0.1
	case driver.StageTokenize:
		return 0.3
	case driver.StageResolve:
		return 0.5
	case driver.StageSniff:
		return 0.7
	default:
		return 0.0
	}
}

func statusLabel(stage driver.Stage, p driver.Progress) string {
	switch p {
	case driver.ProgressQueued, driver.ProgressError:
		return string(p)
	case driver.ProgressDone:
		if stage == driver.StageCache {
			return "cached"
		}
		return string(p)
	case driver.ProgressWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage driver.Stage) string {
	switch stage {
	case driver.StageRead:
		return "reading"
	case driver.StageTokenize:
		return "tokenizing"
	case driver.StageResolve:
		return "resolving"
	case driver.StageSniff:
		return "sniffing"
	default:
		return ""
	}
}

func isFinal(status string) bool {
	return status == "done" || status == "cached" || status == "error"
}

func isActive(status string) bool {
	return !isFinal(status) && status != string(driver.ProgressQueued)
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done", "cached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "reading", "tokenizing", "resolving", "sniffing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
