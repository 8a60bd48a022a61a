package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/lepinkainen/libris/internal/catalog"
)

func printBooks(w io.Writer, books []catalog.Book) {
	if len(books) == 0 {
		_, _ = fmt.Fprintln(w, "No books found.")
		return
	}
	for i, b := range books {
		_, _ = fmt.Fprintf(w, "%3d. %s (%s) by %s [%s]\n     %s\n", i+1, b.Title, b.Year, b.Author, b.Source, b.ID)
	}
}

func printFavorites(w io.Writer, records []catalog.FavoriteRecord) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "No favorites saved.")
		return
	}
	for i, r := range records {
		_, _ = fmt.Fprintf(w, "%3d. %s by %s [%s] added %s\n     %s\n",
			i+1, r.Title, r.Author, r.Source, r.AddedAt.Local().Format("2006-01-02 15:04"), r.ID)
	}
}

func printDetails(w io.Writer, b catalog.Book) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", b.Title)
	fmt.Fprintf(&sb, "  Author:   %s\n", b.Author)
	fmt.Fprintf(&sb, "  Year:     %s\n", b.Year)
	optional(&sb, "Genre", b.Genre)
	if b.PageCount != nil {
		fmt.Fprintf(&sb, "  Pages:    %d\n", *b.PageCount)
	}
	optional(&sb, "ISBN", b.ISBN)
	optional(&sb, "Language", b.Language)
	if b.Rating != nil {
		fmt.Fprintf(&sb, "  Rating:   %.1f\n", *b.Rating)
	}
	optional(&sb, "Cover", b.ThumbnailURL)
	fmt.Fprintf(&sb, "  Source:   %s\n", b.Source)
	fmt.Fprintf(&sb, "  ID:       %s\n", b.ID)
	if desc := strings.TrimSpace(b.Description); desc != "" {
		fmt.Fprintf(&sb, "\n%s\n", desc)
	}
	_, _ = io.WriteString(w, sb.String())
}

func optional(sb *strings.Builder, label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	fmt.Fprintf(sb, "  %-9s %s\n", label+":", *value)
}
