package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/libris/internal/catalog"
	"github.com/lepinkainen/libris/internal/config"
	"github.com/lepinkainen/libris/internal/errors"
	"github.com/lepinkainen/libris/internal/fileutil"
	"github.com/lepinkainen/libris/internal/seed"
	"github.com/lepinkainen/libris/internal/tui"
)

var selectBooks = tui.Select

// SearchCmd searches every catalog for a query.
type SearchCmd struct {
	Query       []string `arg:"" optional:"" help:"Search terms (blank lists popular books)"`
	Interactive bool     `short:"i" help:"Browse results page by page in an interactive list"`
	Add         bool     `help:"Add the book picked in interactive mode to favorites"`
}

func (s *SearchCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	query := strings.Join(s.Query, " ")

	if s.Interactive {
		return a.browse(ctx, query, s.Add)
	}
	printBooks(a.out, withBackup(a.service.Search(ctx, query)))
	return nil
}

// PopularCmd lists books for the default query.
type PopularCmd struct{}

func (p *PopularCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	printBooks(a.out, withBackup(a.service.Popular(context.Background())))
	return nil
}

// PageCmd prints one page of the combined ranking.
type PageCmd struct {
	Query string `arg:"" optional:"" help:"Search query (blank uses the default query)"`
	Page  int    `short:"p" help:"Page number, starting at 1" default:"1"`
	Size  int    `short:"n" help:"Books per page (0 uses search.page_size)" default:"0"`
}

func (p *PageCmd) Run() error {
	if p.Page < 1 {
		return fmt.Errorf("page must be 1 or greater, got %d", p.Page)
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	books := a.service.GetPage(context.Background(), p.Query, p.Page, p.Size)
	if p.Page == 1 {
		books = withBackup(books)
	}
	printBooks(a.out, books)
	return nil
}

// ShowCmd prints the details of one book.
type ShowCmd struct {
	ID string `arg:"" help:"Book id, e.g. google-zyTCAlFPjgYC"`
}

func (s *ShowCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	book := a.resolver.Resolve(context.Background(), s.ID)
	if book == nil {
		return fmt.Errorf("%w: %q", catalog.ErrInvalidID, s.ID)
	}
	printDetails(a.out, *book)
	return nil
}

// CoverCmd downloads the cover image of one book. The global --overwrite
// flag replaces an existing file.
type CoverCmd struct {
	ID       string `arg:"" help:"Book id"`
	Output   string `short:"o" help:"Directory to save the cover in" default:"."`
	MaxWidth int    `help:"Resize covers wider than this many pixels" default:"600"`
}

func (c *CoverCmd) Run() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	book := a.resolver.Resolve(ctx, c.ID)
	if book == nil {
		return fmt.Errorf("%w: %q", catalog.ErrInvalidID, c.ID)
	}
	if !book.HasThumbnail() {
		return fmt.Errorf("no cover available for %q", book.Title)
	}

	res, err := fileutil.DownloadCover(ctx, fileutil.CoverDownloadOptions{
		URL:       *book.ThumbnailURL,
		OutputDir: c.Output,
		Filename:  fileutil.BuildCoverFilename(book.Title),
		MaxWidth:  c.MaxWidth,
		Overwrite: config.OverwriteFiles,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.out, filepath.Clean(res.LocalPath))
	return nil
}

// browse runs the interactive selector over paged results.
func (a *app) browse(ctx context.Context, query string, addPicked bool) error {
	query = a.service.NormalizeQuery(query)
	first := withBackup(a.service.GetPage(ctx, query, 1, 0))

	loader := func(ctx context.Context, page int) []catalog.Book {
		return a.service.GetPage(ctx, query, page, 0)
	}

	result, err := selectBooks(ctx, query, first, loader, a.service.Tracker())
	if err != nil {
		return fmt.Errorf("selector failed: %w", err)
	}

	switch result.Action {
	case tui.ActionStopped:
		return errors.NewSelectorQuit(query, result.Page)
	case tui.ActionSelected:
		printDetails(a.out, *result.Selection)
		if addPicked {
			return a.addFavorite(ctx, result.Selection, false)
		}
	}
	return nil
}

// withBackup substitutes the offline list when nothing came back.
func withBackup(books []catalog.Book) []catalog.Book {
	if len(books) > 0 {
		return books
	}
	backup, err := seed.Books()
	if err != nil {
		slog.Error("Backup list unavailable", "error", err)
		return books
	}
	slog.Warn("No results from any source, showing backup list", "books", len(backup))
	return backup
}
