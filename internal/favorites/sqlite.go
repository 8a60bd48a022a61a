package favorites

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lepinkainen/libris/internal/catalog"
)

const schema = `
CREATE TABLE IF NOT EXISTS favorites (
	id TEXT PRIMARY KEY NOT NULL,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	data TEXT NOT NULL,
	added_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_favorites_added_at ON favorites(added_at);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time

	// mu serializes writes and guards lastAdded.
	mu        sync.Mutex
	lastAdded time.Time

	subsMu  sync.Mutex
	subs    map[int]chan Change
	nextSub int
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (or creates) the favorites database at dbPath.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites database: %w", err)
	}
	// One connection keeps writes ordered and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create favorites table: %w", err), closeErr)
	}

	s := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
		subs:   make(map[int]chan Change),
	}

	var last sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(added_at) FROM favorites`).Scan(&last); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to read favorites: %w", err), closeErr)
	}
	if last.Valid {
		s.lastAdded = time.Unix(0, last.Int64)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database and every subscription.
func (s *SQLiteStore) Close() error {
	s.subsMu.Lock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.subsMu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]catalog.FavoriteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data, added_at FROM favorites ORDER BY added_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []catalog.FavoriteRecord{}
	for rows.Next() {
		var data string
		var addedAt int64
		if err := rows.Scan(&data, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		var b catalog.Book
		if err := json.Unmarshal([]byte(data), &b); err != nil {
			slog.Warn("Skipping unreadable favorite", "error", err)
			continue
		}
		records = append(records, catalog.FavoriteRecord{Book: b, AddedAt: time.Unix(0, addedAt)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) Add(ctx context.Context, book *catalog.Book) ([]catalog.FavoriteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case book == nil:
		slog.Warn("Ignoring nil favorite")
		return s.GetAll(ctx)
	case strings.TrimSpace(book.ID) == "":
		slog.Warn("Ignoring favorite without id", "title", book.Title)
		return s.GetAll(ctx)
	}

	data, err := json.Marshal(book)
	if err != nil {
		return nil, fmt.Errorf("failed to encode favorite: %w", err)
	}

	addedAt := s.nextAddedAt()
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (id, title, author, data, added_at) VALUES (?, ?, ?, ?, ?)`,
		book.ID, book.Title, book.Author, string(data), addedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to insert favorite: %w", err)
	}

	inserted, _ := res.RowsAffected()
	if inserted == 0 {
		slog.Info("Favorite already saved", "id", book.ID)
		return s.GetAll(ctx)
	}
	s.lastAdded = addedAt

	return s.changed(ctx, "added", book.ID)
}

func (s *SQLiteStore) Remove(ctx context.Context, id string) ([]catalog.FavoriteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete favorite: %w", err)
	}
	if removed, _ := res.RowsAffected(); removed == 0 {
		return s.GetAll(ctx)
	}
	return s.changed(ctx, "removed", id)
}

func (s *SQLiteStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM favorites WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query favorite: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) FindDuplicate(ctx context.Context, title, author string) (*catalog.FavoriteRecord, error) {
	t, a := normalize(title), normalize(author)
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range all {
		if normalize(f.Title) == t && normalize(f.Author) == a {
			return &f, nil
		}
	}
	return nil, nil
}

func (s *SQLiteStore) Subscribe() (<-chan Change, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Change, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			if c, ok := s.subs[id]; ok {
				close(c)
				delete(s.subs, id)
			}
		})
	}
}

// nextAddedAt returns the current time, bumped past the last assigned
// timestamp so AddedAt strictly increases even on coarse clocks.
func (s *SQLiteStore) nextAddedAt() time.Time {
	now := s.now()
	if !now.After(s.lastAdded) {
		now = s.lastAdded.Add(time.Nanosecond)
	}
	return now
}

func (s *SQLiteStore) changed(ctx context.Context, action, id string) ([]catalog.FavoriteRecord, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Favorites changed", "action", action, "id", id, "total", len(all))
	s.publish(Change{Count: len(all), Favorites: all})
	return all, nil
}

// publish hands the change to every subscriber without blocking. A full
// channel holds a stale change, which is replaced.
func (s *SQLiteStore) publish(c Change) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- c:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c:
		default:
		}
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
