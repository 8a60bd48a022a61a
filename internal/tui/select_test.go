package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/libris/internal/aggregate"
	"github.com/lepinkainen/libris/internal/catalog"
)

func books(titles ...string) []catalog.Book {
	out := make([]catalog.Book, len(titles))
	for i, t := range titles {
		out[i] = catalog.Book{ID: "google-" + t, Title: t, Author: "A", Year: "2001", Source: "Google Books"}
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestEnterSelectsHighlightedBook(t *testing.T) {
	m := newModel(context.Background(), "go", books("Alpha", "Beta"), nil, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_ = cmd
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, isQuit(t, cmd))
	assert.Equal(t, ActionSelected, m.result.Action)
	require.NotNil(t, m.result.Selection)
	assert.Equal(t, "Beta", m.result.Selection.Title)
	assert.Equal(t, 1, m.result.Page)
}

func TestSkipAndStopKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want SelectionAction
	}{
		{"s skips", runes("s"), ActionSkipped},
		{"esc skips", tea.KeyMsg{Type: tea.KeyEsc}, ActionSkipped},
		{"q stops", runes("q"), ActionStopped},
		{"ctrl+c stops", tea.KeyMsg{Type: tea.KeyCtrlC}, ActionStopped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(context.Background(), "go", books("Alpha"), nil, nil)
			_, cmd := m.Update(tt.key)
			assert.True(t, isQuit(t, cmd))
			assert.Equal(t, tt.want, m.result.Action)
			assert.Nil(t, m.result.Selection)
		})
	}
}

func TestNextPageLoadsAndReplacesItems(t *testing.T) {
	var requested []int
	loader := func(_ context.Context, page int) []catalog.Book {
		requested = append(requested, page)
		return books("Page2-A", "Page2-B")
	}
	m := newModel(context.Background(), "go", books("Alpha"), loader, nil)

	_, cmd := m.Update(runes("n"))
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Loading page 2")

	_, _ = m.Update(cmd())
	assert.Equal(t, []int{2}, requested)
	assert.Equal(t, 2, m.page)
	assert.Len(t, m.list.Items(), 2)
	assert.Equal(t, "Page2-A", m.list.SelectedItem().(bookItem).Book.Title)

	_, cmd = m.Update(runes("p"))
	require.NotNil(t, cmd)
	_, _ = m.Update(cmd())
	assert.Equal(t, []int{2, 1}, requested)
	assert.Equal(t, 1, m.page)
}

func TestPreviousOnFirstPageDoesNothing(t *testing.T) {
	called := false
	loader := func(context.Context, int) []catalog.Book {
		called = true
		return nil
	}
	m := newModel(context.Background(), "go", books("Alpha"), loader, nil)

	_, cmd := m.Update(runes("p"))
	assert.Nil(t, cmd)
	assert.False(t, called)
}

func TestStalePageIsDropped(t *testing.T) {
	loader := func(_ context.Context, page int) []catalog.Book {
		return books("slow", "result")
	}
	tracker := &aggregate.Tracker{}
	m := newModel(context.Background(), "go", books("Alpha"), loader, tracker)

	_, first := m.Update(runes("n"))
	_, second := m.Update(runes("n"))
	require.NotNil(t, first)
	require.NotNil(t, second)

	stale := first().(pageLoadedMsg)
	_, _ = m.Update(stale)
	assert.Equal(t, 1, m.page)
	assert.Len(t, m.list.Items(), 1)

	_, _ = m.Update(second())
	assert.Equal(t, 2, m.page)
	assert.Len(t, m.list.Items(), 2)
}

func TestEmptyPageKeepsCurrentItems(t *testing.T) {
	loader := func(context.Context, int) []catalog.Book { return nil }
	m := newModel(context.Background(), "go", books("Alpha"), loader, nil)

	_, cmd := m.Update(runes("n"))
	_, _ = m.Update(cmd())

	assert.Equal(t, 1, m.page)
	assert.Len(t, m.list.Items(), 1)
	assert.Contains(t, m.View(), "No results on page 2")
}

func TestSelectWithoutBooksSkips(t *testing.T) {
	res, err := Select(context.Background(), "go", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, res.Action)
}

func TestSelectReturnsModelResult(t *testing.T) {
	orig := runProgram
	t.Cleanup(func() { runProgram = orig })

	runProgram = func(m tea.Model) (tea.Model, error) {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return m, nil
	}

	res, err := Select(context.Background(), "go", books("Alpha"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionSelected, res.Action)
	assert.Equal(t, "Alpha", res.Selection.Title)
}

func TestSelectPropagatesProgramError(t *testing.T) {
	orig := runProgram
	t.Cleanup(func() { runProgram = orig })

	runProgram = func(tea.Model) (tea.Model, error) {
		return nil, errors.New("no tty")
	}

	_, err := Select(context.Background(), "go", books("Alpha"), nil, nil)
	assert.EqualError(t, err, "no tty")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("  a \n b ", 10))
	assert.Equal(t, "Cien a...", truncate("Cien años de soledad", 9))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
}

func TestFormatMetadata(t *testing.T) {
	b := catalog.Book{
		Genre:     catalog.Ptr("Fiction"),
		PageCount: catalog.Ptr(412),
		Language:  catalog.Ptr("en"),
		ISBN:      catalog.Ptr("9780441172719"),
	}
	assert.Equal(t, "Fiction | 412 pages | EN | ISBN 9780441172719", formatMetadata(b, 0))
	assert.Equal(t, "No metadata available", formatMetadata(catalog.Book{}, 40))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 76, clamp(76, 0, 40))
	assert.Equal(t, 50, clamp(76, 50, 40))
	assert.Equal(t, 40, clamp(76, 10, 40))
}
