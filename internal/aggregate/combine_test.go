package aggregate

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"golang.org/x/text/language"

	"github.com/lepinkainen/libris/internal/catalog"
)

func TestCombineDedupFirstWins(t *testing.T) {
	lists := [][]catalog.Book{
		{book("google-1", "Dune", "Frank Herbert", false)},
		{book("openlib-1", "dune", "FRANK  HERBERT", true)},
		{book("isbndb-1", " Dune ", "frank herbert", true)},
	}

	got := Combine(lists, 10)
	assert.Equal(t, []string{"google-1"}, ids(got))
}

func TestCombineDifferentAuthorFormsStayDistinct(t *testing.T) {
	lists := [][]catalog.Book{
		{book("google-1", "Dune", "F. Herbert", false)},
		{book("openlib-1", "Dune", "Frank Herbert", false)},
	}

	assert.Equal(t, 2, len(Combine(lists, 10)))
}

func TestCombineThumbnailThenTitle(t *testing.T) {
	lists := [][]catalog.Book{
		{book("a", "Zebra", "X", false), book("b", "apple", "X", false)},
		{book("c", "Mango", "X", true), book("d", "Banana", "X", true)},
	}

	got := Combine(lists, 10)
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids(got))

	for i := 1; i < len(got); i++ {
		assert.False(t, !got[i-1].HasThumbnail() && got[i].HasThumbnail(), "book without thumbnail before one with")
	}
}

func TestCombineIsDeterministic(t *testing.T) {
	lists := [][]catalog.Book{
		{book("a1", "Same", "One", false), book("a2", "Other", "One", true)},
		{book("b1", "Same", "Two", false), book("b2", "Éclair", "Two", true)},
		{book("c1", "same", "one", true)},
	}

	first := Combine(lists, 10)
	for range 20 {
		assert.Equal(t, ids(first), ids(Combine(lists, 10)))
	}
	// Equal titles keep flattened order.
	assert.Equal(t, []string{"b2", "a2", "a1", "b1"}, ids(first))
}

func TestCombineTruncates(t *testing.T) {
	lists := [][]catalog.Book{
		{book("a", "A", "X", true), book("b", "B", "X", true), book("c", "C", "X", true)},
	}

	assert.Equal(t, []string{"a", "b"}, ids(Combine(lists, 2)))
	assert.Equal(t, []catalog.Book{}, Combine(lists, 0))
	assert.Equal(t, []catalog.Book{}, Combine(nil, 5))
}

func TestCombineLocaleCollation(t *testing.T) {
	lists := [][]catalog.Book{{
		book("1", "zorro", "X", false),
		book("2", "Ñandú", "X", false),
		book("3", "nube", "X", false),
		book("4", "oso", "X", false),
	}}

	got := CombineLocale(lists, 10, language.Spanish)
	assert.Equal(t, []string{"3", "2", "4", "1"}, ids(got))
}
