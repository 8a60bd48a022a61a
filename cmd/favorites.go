package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/lepinkainen/libris/internal/catalog"
	"github.com/lepinkainen/libris/internal/config"
	"github.com/lepinkainen/libris/internal/fileutil"
)

// FavoritesCmd groups the favorites subcommands.
type FavoritesCmd struct {
	List   FavoritesListCmd   `cmd:"" default:"1" help:"List saved favorites, oldest first"`
	Add    FavoritesAddCmd    `cmd:"" help:"Save a book by id, or enter one manually"`
	Remove FavoritesRemoveCmd `cmd:"" help:"Remove a favorite by id"`
	Export FavoritesExportCmd `cmd:"" help:"Write each favorite as a markdown note"`
}

type FavoritesListCmd struct{}

func (l *FavoritesListCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	all, err := a.favorites.GetAll(context.Background())
	if err != nil {
		return err
	}
	printFavorites(a.out, all)
	return nil
}

// FavoritesAddCmd saves a resolved book, or a manual entry when no id is
// given.
type FavoritesAddCmd struct {
	ID          string `arg:"" optional:"" help:"Book id to resolve and save"`
	Title       string `help:"Title of a manual entry"`
	Author      string `help:"Author of a manual entry"`
	Year        string `help:"Publication year of a manual entry"`
	Description string `help:"Description of a manual entry"`
	Force       bool   `help:"Save even when a favorite with the same title and author exists"`
}

func (f *FavoritesAddCmd) Run() error {
	book, err := f.book()
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	if book == nil {
		book = a.resolver.Resolve(ctx, f.ID)
		if book == nil {
			return fmt.Errorf("%w: %q", catalog.ErrInvalidID, f.ID)
		}
	}
	return a.addFavorite(ctx, book, f.Force)
}

// book returns the manual entry described by the flags, or nil when an
// id was given instead.
func (f *FavoritesAddCmd) book() (*catalog.Book, error) {
	id := strings.TrimSpace(f.ID)
	manual := strings.TrimSpace(f.Title) != "" || strings.TrimSpace(f.Author) != ""
	switch {
	case id != "" && manual:
		return nil, fmt.Errorf("give either a book id or --title/--author, not both")
	case id != "":
		return nil, nil
	case !manual:
		return nil, fmt.Errorf("a book id or --title and --author are required")
	}

	year := strings.TrimSpace(f.Year)
	if year == "" {
		year = catalog.UnknownYear
	}
	b := catalog.Book{
		ID:          catalog.ComposeID(catalog.TagManual, fmt.Sprint(time.Now().UnixMilli())),
		Title:       strings.TrimSpace(f.Title),
		Author:      strings.TrimSpace(f.Author),
		Year:        year,
		Description: strings.TrimSpace(f.Description),
		Source:      catalog.TagManual.SourceName(),
	}
	if err := catalog.Validate(b); err != nil {
		return nil, fmt.Errorf("manual entry needs both --title and --author: %w", err)
	}
	return &b, nil
}

func (a *app) addFavorite(ctx context.Context, book *catalog.Book, force bool) error {
	exists, err := a.favorites.ExistsByID(ctx, book.ID)
	if err != nil {
		return err
	}
	if exists {
		_, _ = fmt.Fprintf(a.out, "%q is already a favorite.\n", book.Title)
		return nil
	}

	dup, err := a.favorites.FindDuplicate(ctx, book.Title, book.Author)
	if err != nil {
		return err
	}
	if dup != nil && !force {
		slog.Warn("Probable duplicate favorite", "title", book.Title, "existing_id", dup.ID)
		_, _ = fmt.Fprintf(a.out, "%q by %s looks like favorite %s; use --force to save it anyway.\n",
			book.Title, book.Author, dup.ID)
		return nil
	}

	all, err := a.favorites.Add(ctx, book)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Saved %q (%d favorites).\n", book.Title, len(all))
	return nil
}

type FavoritesRemoveCmd struct {
	ID string `arg:"" help:"Favorite id to remove"`
}

func (r *FavoritesRemoveCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	exists, err := a.favorites.ExistsByID(ctx, r.ID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no favorite with id %q", r.ID)
	}

	all, err := a.favorites.Remove(ctx, r.ID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Removed %s (%d favorites left).\n", r.ID, len(all))
	return nil
}

// FavoritesExportCmd writes markdown notes, optionally with covers.
type FavoritesExportCmd struct {
	Dir    string `short:"d" help:"Output directory (defaults to export.dir)"`
	Covers bool   `help:"Download cover images next to the notes"`
}

func (e *FavoritesExportCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	dir := e.Dir
	if dir == "" {
		dir = a.settings.NotesDir
	}
	return a.exportFavorites(context.Background(), dir, e.Covers)
}

func (a *app) exportFavorites(ctx context.Context, dir string, covers bool) error {
	all, err := a.favorites.GetAll(ctx)
	if err != nil {
		return err
	}

	written := 0
	for _, rec := range all {
		coverPath := ""
		if covers && rec.HasThumbnail() {
			coverPath = a.exportCover(ctx, dir, rec.Book)
		}

		path, ok, err := fileutil.ExportNote(dir, rec, coverPath, config.OverwriteFiles)
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", rec.ID, err)
		}
		if ok {
			written++
			slog.Debug("Exported favorite", "id", rec.ID, "path", path)
		}
	}
	_, _ = fmt.Fprintf(a.out, "Exported %d of %d favorites to %s\n", written, len(all), dir)
	return nil
}

// exportCover downloads the cover into dir/attachments and returns its path
// relative to the notes. Failures only cost the cover.
func (a *app) exportCover(ctx context.Context, dir string, book catalog.Book) string {
	filename := fileutil.BuildCoverFilename(book.Title)
	_, err := fileutil.DownloadCover(ctx, fileutil.CoverDownloadOptions{
		URL:       *book.ThumbnailURL,
		OutputDir: filepath.Join(dir, "attachments"),
		Filename:  filename,
		Overwrite: config.OverwriteFiles,
	})
	if err != nil {
		slog.Warn("Cover download failed", "id", book.ID, "error", err)
		return ""
	}
	return filepath.ToSlash(filepath.Join("attachments", filename))
}
