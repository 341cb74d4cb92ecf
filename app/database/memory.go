package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MemoryStore keeps episodes and users in maps keyed by id. Nothing survives
// a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	episodes map[string]Episode
	users    map[string]User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		episodes: make(map[string]Episode),
		users:    make(map[string]User),
	}
}

func (s *MemoryStore) GetAll() ([]Episode, error) {
	return s.Find(Query{})
}

func (s *MemoryStore) GetByType(episodeType EpisodeType) ([]Episode, error) {
	return s.Find(Query{Type: episodeType})
}

func (s *MemoryStore) Search(query string) ([]Episode, error) {
	return s.Find(Query{Search: query})
}

func (s *MemoryStore) Find(q Query) ([]Episode, error) {
	s.mu.RLock()
	episodes := lo.Values(s.episodes)
	s.mu.RUnlock()

	if q.Type != "" {
		episodes = lo.Filter(episodes, func(e Episode, _ int) bool {
			return e.EpisodeType == q.Type
		})
	}

	if q.Search != "" {
		m := newMatcher(q.Search)
		episodes = lo.Filter(episodes, func(e Episode, _ int) bool {
			return m.match(e)
		})
	}

	sortByPubDateDesc(episodes)
	return episodes, nil
}

func (s *MemoryStore) GetEpisodeCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.episodes), nil
}

func (s *MemoryStore) Create(input EpisodeInput) (Episode, error) {
	if err := input.Validate(); err != nil {
		return Episode{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(input), nil
}

// Upsert matches on link. The matched row keeps its id and createdAt.
func (s *MemoryStore) Upsert(input EpisodeInput) (Episode, error) {
	if err := input.Validate(); err != nil {
		return Episode{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, found := lo.FindKeyBy(s.episodes, func(_ string, e Episode) bool {
		return e.Link == input.Link
	})
	if !found {
		return s.insertLocked(input), nil
	}

	merged := mergeEpisode(s.episodes[existing], input)
	s.episodes[existing] = merged
	return merged, nil
}

func (s *MemoryStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.episodes = make(map[string]Episode)
	return nil
}

func (s *MemoryStore) insertLocked(input EpisodeInput) Episode {
	id := uuid.NewString()
	for _, taken := s.episodes[id]; taken; _, taken = s.episodes[id] {
		id = uuid.NewString()
	}

	episode := Episode{
		ID:            id,
		Title:         input.Title,
		Description:   input.Description,
		Link:          input.Link,
		PubDate:       input.PubDate,
		EpisodeType:   input.EpisodeType,
		EpisodeNumber: input.EpisodeNumber,
		Duration:      input.Duration,
		EnclosureURL:  input.EnclosureURL,
		IsExplicit:    input.IsExplicit,
		CreatedAt:     time.Now().UTC(),
		Source:        input.Source,
	}
	s.episodes[id] = episode
	return episode
}

func (s *MemoryStore) GetUser(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByUsername(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := lo.Find(lo.Values(s.users), func(u User) bool {
		return u.Username == username
	})
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *MemoryStore) CreateUser(input UserInput) (User, error) {
	if err := input.Validate(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == input.Username {
			return User{}, fmt.Errorf("username %q already taken", input.Username)
		}
	}

	user := User{
		ID:       uuid.NewString(),
		Username: input.Username,
		Password: input.Password,
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
