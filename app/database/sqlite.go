package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const episodeColumns = `id, title, description, link, pub_date, pub_date_nanos, episode_type,
	episode_number, duration, enclosure_url, is_explicit, created_at, created_at_nanos, source`

// SQLiteStore is the persistent Store. Timestamps are stored as unix seconds
// plus a nanosecond column, so any year time.Time can hold keeps its order.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	version, dirty, err := RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Debug("Database migrated", "path", path, "version", version, "dirty", dirty)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetAll() ([]Episode, error) {
	return s.Find(Query{})
}

func (s *SQLiteStore) GetByType(episodeType EpisodeType) ([]Episode, error) {
	return s.Find(Query{Type: episodeType})
}

func (s *SQLiteStore) Search(query string) ([]Episode, error) {
	return s.Find(Query{Search: query})
}

// Find filters by type in SQL and matches the search term in Go, so folding
// behaves the same as in MemoryStore.
func (s *SQLiteStore) Find(q Query) ([]Episode, error) {
	query := `SELECT ` + episodeColumns + ` FROM episodes`
	var args []interface{}
	if q.Type != "" {
		query += ` WHERE episode_type = ?`
		args = append(args, string(q.Type))
	}
	query += ` ORDER BY pub_date DESC, pub_date_nanos DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get episodes: %w", err)
	}
	defer rows.Close()

	var m *matcher
	if q.Search != "" {
		m = newMatcher(q.Search)
	}

	episodes := []Episode{}
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan episode row: %w", err)
		}
		if m != nil && !m.match(episode) {
			continue
		}
		episodes = append(episodes, episode)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating episode rows: %w", err)
	}

	return episodes, nil
}

func (s *SQLiteStore) GetEpisodeCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM episodes").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get episode count: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) Create(input EpisodeInput) (Episode, error) {
	if err := input.Validate(); err != nil {
		return Episode{}, err
	}

	episode := Episode{
		ID:            uuid.NewString(),
		Title:         input.Title,
		Description:   input.Description,
		Link:          input.Link,
		PubDate:       input.PubDate.UTC(),
		EpisodeType:   input.EpisodeType,
		EpisodeNumber: input.EpisodeNumber,
		Duration:      input.Duration,
		EnclosureURL:  input.EnclosureURL,
		IsExplicit:    input.IsExplicit,
		CreatedAt:     time.Now().UTC(),
		Source:        input.Source,
	}

	if err := insertEpisode(s.db, episode); err != nil {
		return Episode{}, err
	}
	return episode, nil
}

// Upsert matches on link. The matched row keeps its id and created_at.
func (s *SQLiteStore) Upsert(input EpisodeInput) (Episode, error) {
	if err := input.Validate(); err != nil {
		return Episode{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Episode{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+episodeColumns+` FROM episodes WHERE link = ? LIMIT 1`, input.Link)
	existing, err := scanEpisode(row)

	var episode Episode
	switch {
	case errors.Is(err, sql.ErrNoRows):
		episode = Episode{
			ID:            uuid.NewString(),
			Title:         input.Title,
			Description:   input.Description,
			Link:          input.Link,
			PubDate:       input.PubDate.UTC(),
			EpisodeType:   input.EpisodeType,
			EpisodeNumber: input.EpisodeNumber,
			Duration:      input.Duration,
			EnclosureURL:  input.EnclosureURL,
			IsExplicit:    input.IsExplicit,
			CreatedAt:     time.Now().UTC(),
			Source:        input.Source,
		}
		if err := insertEpisode(tx, episode); err != nil {
			return Episode{}, err
		}
	case err != nil:
		return Episode{}, fmt.Errorf("failed to look up episode by link: %w", err)
	default:
		episode = mergeEpisode(existing, input)
		episode.PubDate = episode.PubDate.UTC()
		_, err = tx.Exec(`
			UPDATE episodes
			SET title = ?, description = ?, link = ?, pub_date = ?, pub_date_nanos = ?, episode_type = ?,
			    episode_number = ?, duration = ?, enclosure_url = ?, is_explicit = ?, source = ?
			WHERE id = ?
		`, episode.Title, nullString(episode.Description), episode.Link,
			episode.PubDate.Unix(), episode.PubDate.Nanosecond(), string(episode.EpisodeType),
			nullString(episode.EpisodeNumber), nullString(episode.Duration), nullString(episode.EnclosureURL),
			episode.IsExplicit, episode.Source, episode.ID)
		if err != nil {
			return Episode{}, fmt.Errorf("failed to update episode: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Episode{}, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return episode, nil
}

func (s *SQLiteStore) ClearAll() error {
	if _, err := s.db.Exec(`DELETE FROM episodes`); err != nil {
		return fmt.Errorf("failed to clear episodes: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUser(id string) (*User, error) {
	return s.getUser(`SELECT id, username, password FROM users WHERE id = ?`, id)
}

func (s *SQLiteStore) GetUserByUsername(username string) (*User, error) {
	return s.getUser(`SELECT id, username, password FROM users WHERE username = ?`, username)
}

func (s *SQLiteStore) CreateUser(input UserInput) (User, error) {
	if err := input.Validate(); err != nil {
		return User{}, err
	}

	user := User{
		ID:       uuid.NewString(),
		Username: input.Username,
		Password: input.Password,
	}

	_, err := s.db.Exec(`INSERT INTO users (id, username, password) VALUES (?, ?, ?)`,
		user.ID, user.Username, user.Password)
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) getUser(query, arg string) (*User, error) {
	var user User
	err := s.db.QueryRow(query, arg).Scan(&user.ID, &user.Username, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func insertEpisode(db execer, episode Episode) error {
	_, err := db.Exec(`
		INSERT INTO episodes (`+episodeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, episode.ID, episode.Title, nullString(episode.Description), episode.Link,
		episode.PubDate.Unix(), episode.PubDate.Nanosecond(), string(episode.EpisodeType),
		nullString(episode.EpisodeNumber), nullString(episode.Duration), nullString(episode.EnclosureURL),
		episode.IsExplicit, episode.CreatedAt.Unix(), episode.CreatedAt.Nanosecond(), episode.Source)
	if err != nil {
		return fmt.Errorf("failed to insert episode: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEpisode(row scanner) (Episode, error) {
	var episode Episode
	var description, episodeNumber, duration, enclosureURL sql.NullString
	var episodeType string
	var pubDate, pubDateNanos, createdAt, createdAtNanos int64

	err := row.Scan(
		&episode.ID, &episode.Title, &description, &episode.Link, &pubDate, &pubDateNanos, &episodeType,
		&episodeNumber, &duration, &enclosureURL, &episode.IsExplicit, &createdAt, &createdAtNanos,
		&episode.Source,
	)
	if err != nil {
		return Episode{}, err
	}

	episode.Description = stringPtr(description)
	episode.EpisodeNumber = stringPtr(episodeNumber)
	episode.Duration = stringPtr(duration)
	episode.EnclosureURL = stringPtr(enclosureURL)
	episode.EpisodeType = EpisodeType(episodeType)
	episode.PubDate = time.Unix(pubDate, pubDateNanos).UTC()
	episode.CreatedAt = time.Unix(createdAt, createdAtNanos).UTC()

	return episode, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
