// Package tui is an interactive terminal pager over a paginated table.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/me/heroconsole/internal/table"
)

// maxColumnWidth caps how wide a single column may grow.
const maxColumnWidth = 40

// chromeHeight is the number of lines around the grid (title, status, help).
const chromeHeight = 6

// Options configures Run.
type Options struct {
	Title  string
	Input  io.Reader
	Output io.Writer
	Page   int // first page to show; values below 1 mean 1
}

// pageLoadedMsg reports the end of a fetch started by the pager.
type pageLoadedMsg struct {
	err error
}

type styles struct {
	title  lipgloss.Style
	status lipgloss.Style
	err    lipgloss.Style
	help   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		help:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Model is the bubbletea model of the pager. Page fetches run as commands,
// so the screen stays responsive while a page loads.
type Model[Row any] struct {
	ctx       context.Context
	table     *table.Table[Row]
	grid      btable.Model
	title     string
	startPage int
	loading   bool
	err       error
	styles    styles
}

// New creates a pager over t. Nothing is fetched until Init runs.
func New[Row any](ctx context.Context, t *table.Table[Row], title string, page int) Model[Row] {
	if page < 1 {
		page = 1
	}
	grid := btable.New(
		btable.WithFocused(true),
		btable.WithHeight(t.PageSize()+1),
	)
	return Model[Row]{
		ctx:       ctx,
		table:     t,
		grid:      grid,
		title:     title,
		startPage: page,
		loading:   true,
		styles:    defaultStyles(),
	}
}

// Init loads the first page.
func (m Model[Row]) Init() tea.Cmd {
	start := m.startPage
	return m.fetch(func(ctx context.Context) error { return m.table.Open(ctx, start) })
}

func (m Model[Row]) fetch(op func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return pageLoadedMsg{err: op(ctx)}
	}
}

// Update handles key presses and finished fetches.
func (m Model[Row]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "n", "right", "l", "pgdown":
			return m.navigate(m.table.CurrentPage() < m.table.TotalPages(), m.table.Next)
		case "p", "left", "h", "pgup":
			return m.navigate(m.table.CurrentPage() > 1, m.table.Prev)
		case "g", "home":
			return m.navigate(m.table.CurrentPage() != 1, func(ctx context.Context) error {
				return m.table.Goto(ctx, 1)
			})
		case "G", "end":
			last := m.table.TotalPages()
			return m.navigate(m.table.CurrentPage() != last, func(ctx context.Context) error {
				return m.table.Goto(ctx, last)
			})
		case "r":
			return m.navigate(true, m.table.Load)
		}

	case pageLoadedMsg:
		if errors.Is(msg.err, table.ErrStale) {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.refresh()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.grid.SetWidth(msg.Width)
		if h := msg.Height - chromeHeight; h > 0 {
			m.grid.SetHeight(h)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

// navigate starts op unless a fetch is already running or ok is false.
func (m Model[Row]) navigate(ok bool, op func(context.Context) error) (tea.Model, tea.Cmd) {
	if m.loading || !ok {
		return m, nil
	}
	m.loading = true
	return m, m.fetch(op)
}

// refresh copies the table's current page into the grid.
func (m *Model[Row]) refresh() {
	view := m.table.Snapshot()

	widths := make([]int, len(view.Headers))
	for i, h := range view.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range view.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	cols := make([]btable.Column, len(view.Headers))
	for i, h := range view.Headers {
		cols[i] = btable.Column{Title: h, Width: min(widths[i], maxColumnWidth)}
	}
	rows := make([]btable.Row, len(view.Rows))
	for i, r := range view.Rows {
		rows[i] = btable.Row(r)
	}

	// Rows must never be wider than the column set, so clear them first.
	m.grid.SetRows(nil)
	m.grid.SetColumns(cols)
	m.grid.SetRows(rows)
	m.grid.GotoTop()
}

// Err returns the error of the last finished fetch, if any.
func (m Model[Row]) Err() error {
	return m.err
}

// View renders the pager.
func (m Model[Row]) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.styles.title.Render(m.title))
		b.WriteString("\n")
	}
	b.WriteString(m.grid.View())
	b.WriteString("\n")

	view := m.table.Snapshot()
	status := fmt.Sprintf("Page %d of %d, %d records", view.Page, view.TotalPages, view.TotalCount)
	if m.loading {
		status += "  loading..."
	}
	b.WriteString(m.styles.status.Render(status))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.styles.err.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.help.Render("n/right next  p/left prev  g/G first/last  r reload  q quit"))
	return b.String()
}

// Run shows the pager until the user quits. It returns the error of the
// last fetch, so a session that ended on a failure exits non-zero.
func Run[Row any](ctx context.Context, t *table.Table[Row], opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	final, err := tea.NewProgram(New(ctx, t, opts.Title, opts.Page), progOpts...).Run()
	if err != nil {
		return fmt.Errorf("run pager: %w", err)
	}
	if m, ok := final.(Model[Row]); ok {
		return m.Err()
	}
	return nil
}
