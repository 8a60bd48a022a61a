// Package tui provides the interactive result browser.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/libris/internal/aggregate"
	"github.com/lepinkainen/libris/internal/catalog"
)

const (
	defaultListWidth  = 76
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user selected a book.
	ActionSelected
	// ActionSkipped indicates the user left without choosing.
	ActionSkipped
	// ActionStopped indicates the user asked to stop entirely.
	ActionStopped
)

// SelectionResult holds the outcome of a browse session.
type SelectionResult struct {
	Action    SelectionAction
	Selection *catalog.Book
	Page      int
}

// PageLoader fetches one page of results. It is called off the UI loop.
type PageLoader func(ctx context.Context, page int) []catalog.Book

type bookItem struct {
	catalog.Book
}

func (i bookItem) Title() string {
	return fmt.Sprintf("%s (%s)", i.Book.Title, i.Year)
}

func (i bookItem) FilterValue() string {
	return i.Book.Title
}

func (i bookItem) Description() string {
	return i.Book.Description
}

type itemStyles struct {
	normal      lipgloss.Style
	selected    lipgloss.Style
	sourceStyle lipgloss.Style
	titleStyle  lipgloss.Style
	authorStyle lipgloss.Style
	metaStyle   lipgloss.Style
	descStyle   lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		sourceStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		authorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		metaStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		descStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")),
	}
}

type bookDelegate struct {
	styles itemStyles
}

func newDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 5 }
func (d bookDelegate) Spacing() int                        { return 1 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}
	width := m.Width() - 4

	content := lipgloss.JoinVertical(lipgloss.Left,
		d.styles.sourceStyle.Render(fmt.Sprintf("[%s]", book.Source)),
		d.styles.titleStyle.Render(truncate(book.Title(), width)),
		d.styles.authorStyle.Render(truncate(book.Author, width)),
		d.styles.metaStyle.Render(formatMetadata(book.Book, width)),
		d.styles.descStyle.Render(truncate(book.Description(), width)),
	)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

// pageLoadedMsg carries a finished page load back into the UI loop.
type pageLoadedMsg struct {
	ticket aggregate.Ticket
	page   int
	books  []catalog.Book
}

type model struct {
	ctx     context.Context
	list    list.Model
	query   string
	page    int
	loader  PageLoader
	tracker *aggregate.Tracker
	loading int
	status  string
	result  SelectionResult
}

func newModel(ctx context.Context, query string, books []catalog.Book, loader PageLoader, tracker *aggregate.Tracker) *model {
	l := list.New(toItems(books), newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	if tracker == nil {
		tracker = &aggregate.Tracker{}
	}
	return &model{
		ctx:     ctx,
		list:    l,
		query:   query,
		page:    1,
		loader:  loader,
		tracker: tracker,
		result:  SelectionResult{Action: ActionNone},
	}
}

func toItems(books []catalog.Book) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{Book: b}
	}
	return items
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(bookItem); ok {
				book := selected.Book
				m.result = SelectionResult{Action: ActionSelected, Selection: &book, Page: m.page}
				return m, tea.Quit
			}
		case "n":
			return m, m.load(m.page + 1)
		case "p":
			if m.page > 1 {
				return m, m.load(m.page - 1)
			}
			return m, nil
		case "s", "esc":
			m.result = SelectionResult{Action: ActionSkipped, Page: m.page}
			return m, tea.Quit
		case "ctrl+c", "q":
			m.result = SelectionResult{Action: ActionStopped, Page: m.page}
			return m, tea.Quit
		}
	case pageLoadedMsg:
		return m, m.applyPage(msg)
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-8, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// load starts fetching page. Any load already in flight is superseded.
func (m *model) load(page int) tea.Cmd {
	if m.loader == nil {
		return nil
	}
	ticket := m.tracker.Begin()
	m.loading = page
	m.status = ""

	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		return pageLoadedMsg{ticket: ticket, page: page, books: loader(ctx, page)}
	}
}

func (m *model) applyPage(msg pageLoadedMsg) tea.Cmd {
	if !m.tracker.IsCurrent(msg.ticket) {
		return nil
	}
	m.loading = 0
	if len(msg.books) == 0 {
		m.status = fmt.Sprintf("No results on page %d", msg.page)
		return nil
	}
	m.page = msg.page
	cmd := m.list.SetItems(toItems(msg.books))
	m.list.Select(0)
	return cmd
}

func (m *model) View() string {
	header := headerStyle.Render(fmt.Sprintf("Results for %q, page %d", m.query, m.page))

	status := m.status
	if m.loading > 0 {
		status = fmt.Sprintf("Loading page %d...", m.loading)
	}

	help := "Up/Down navigate | Enter select | s skip | q stop"
	if m.loader != nil {
		help = "Up/Down navigate | n/p page | Enter select | s skip | q stop"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.list.View(),
		statusStyle.Render(status),
		helpStyle.Render(help),
	)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("178"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Select shows books in an interactive list. When loader is set the user
// can page with n and p; tracker (optional) discards pages that arrive
// after a newer request.
func Select(ctx context.Context, query string, books []catalog.Book, loader PageLoader, tracker *aggregate.Tracker) (SelectionResult, error) {
	if len(books) == 0 {
		return SelectionResult{Action: ActionSkipped}, nil
	}

	finalModel, err := runProgram(newModel(ctx, query, books, loader, tracker))
	if err != nil {
		return SelectionResult{}, err
	}

	if typed, ok := finalModel.(*model); ok {
		return typed.result, nil
	}

	return SelectionResult{}, fmt.Errorf("unexpected program result")
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// formatMetadata joins the optional fields that are present.
func formatMetadata(b catalog.Book, availableWidth int) string {
	var parts []string

	if b.Genre != nil && *b.Genre != "" {
		parts = append(parts, *b.Genre)
	}
	if b.PageCount != nil {
		parts = append(parts, fmt.Sprintf("%d pages", *b.PageCount))
	}
	if b.Language != nil && *b.Language != "" {
		parts = append(parts, strings.ToUpper(*b.Language))
	}
	if b.Rating != nil {
		parts = append(parts, fmt.Sprintf("%.1f/5", *b.Rating))
	}
	if b.ISBN != nil && *b.ISBN != "" {
		parts = append(parts, "ISBN "+*b.ISBN)
	}

	if len(parts) == 0 {
		return "No metadata available"
	}
	return truncate(strings.Join(parts, " | "), availableWidth)
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
