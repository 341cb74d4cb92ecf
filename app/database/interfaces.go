package database

type EpisodeRepository interface {
	GetAll() ([]Episode, error)
	GetByType(episodeType EpisodeType) ([]Episode, error)
	Search(query string) ([]Episode, error)
	Find(q Query) ([]Episode, error)
	GetEpisodeCount() (int, error)

	Create(input EpisodeInput) (Episode, error)
	Upsert(input EpisodeInput) (Episode, error)
	ClearAll() error
}

type UserRepository interface {
	GetUser(id string) (*User, error)
	GetUserByUsername(username string) (*User, error)
	CreateUser(input UserInput) (User, error)
}

// Store is what the rest of the application is handed; both the in-memory
// and the SQLite implementations satisfy it.
type Store interface {
	EpisodeRepository
	UserRepository
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
