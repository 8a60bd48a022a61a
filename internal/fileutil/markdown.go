package fileutil

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/libris/internal/catalog"
)

// noteFrontmatter is the YAML header of an exported favorite.
type noteFrontmatter struct {
	Title  string   `yaml:"title"`
	Author string   `yaml:"author"`
	Year   int      `yaml:"year,omitempty"`
	ISBN   string   `yaml:"isbn,omitempty"`
	Genre  string   `yaml:"genre,omitempty"`
	Pages  int      `yaml:"pages,omitempty"`
	Source string   `yaml:"source"`
	ID     string   `yaml:"id"`
	Added  string   `yaml:"added"`
	Cover  string   `yaml:"cover,omitempty"`
	Tags   []string `yaml:"tags"`
}

// BuildNote renders a favorite as a markdown note with YAML frontmatter.
// coverPath is optional and is linked from the body when set.
func BuildNote(rec catalog.FavoriteRecord, coverPath string) (string, error) {
	fm := noteFrontmatter{
		Title:  rec.Title,
		Author: rec.Author,
		Source: rec.Source,
		ID:     rec.ID,
		Added:  rec.AddedAt.UTC().Format(time.RFC3339),
		Cover:  coverPath,
		Tags:   []string{"book"},
	}
	if year, err := strconv.Atoi(rec.Year); err == nil {
		fm.Year = year
		fm.Tags = append(fm.Tags, DecadeTag(year))
	}
	if rec.ISBN != nil {
		fm.ISBN = *rec.ISBN
	}
	if rec.Genre != nil {
		fm.Genre = *rec.Genre
	}
	if rec.PageCount != nil {
		fm.Pages = *rec.PageCount
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var doc strings.Builder
	doc.WriteString("---\n")
	doc.Write(header)
	doc.WriteString("---\n\n")

	fmt.Fprintf(&doc, "# %s\n\n", rec.Title)
	if coverPath != "" {
		fmt.Fprintf(&doc, "![](%s)\n\n", coverPath)
	}
	fmt.Fprintf(&doc, "*%s*\n\n", rec.Author)
	if desc := strings.TrimSpace(rec.Description); desc != "" {
		doc.WriteString(desc)
		doc.WriteString("\n\n")
	}
	return doc.String(), nil
}

// ExportNote writes the note for rec into dir. It reports the note path
// and whether the file was written; an existing note is kept unless
// overwrite is set.
func ExportNote(dir string, rec catalog.FavoriteRecord, coverPath string, overwrite bool) (string, bool, error) {
	path := GetMarkdownFilePath(rec.Title, dir)

	note, err := BuildNote(rec, coverPath)
	if err != nil {
		return path, false, err
	}

	written, err := WriteFileWithOverwrite(path, []byte(note), 0o644, overwrite)
	if err != nil {
		return path, false, fmt.Errorf("failed to write note: %w", err)
	}
	if !written {
		slog.Info("Note already exists, skipping", "path", path)
	}
	return path, written, nil
}

// DecadeTag returns the decade tag for a publication year.
func DecadeTag(year int) string {
	if year < 1900 {
		return "year/pre-1900s"
	}
	return fmt.Sprintf("year/%ds", year/10*10)
}
