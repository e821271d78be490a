package generation

import (
	"context"
	"sync"
	"time"

	"server/internal/domain"
	"server/internal/providers/speech"
)

// stubUsers is an in-memory domain.UserRepository.
type stubUsers struct {
	mu         sync.Mutex
	users      map[string]*domain.UserAccount
	resetCalls int
}

func newStubUsers(users ...*domain.UserAccount) *stubUsers {
	s := &stubUsers{users: make(map[string]*domain.UserAccount)}
	for _, u := range users {
		s.users[u.Email] = u
	}
	return s
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *stubUsers) ResetMonthlyCount(ctx context.Context, email string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return domain.ErrNotFound
	}
	u.MonthlyCount = 0
	reset := now
	u.LastGenerationReset = &reset
	s.resetCalls++
	return nil
}

func (s *stubUsers) count(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[email].MonthlyCount
}

// stubPodcasts emulates the transactional record-plus-counter commit.
type stubPodcasts struct {
	mu       sync.Mutex
	users    *stubUsers
	records  []domain.PodcastRecord
	nextID   int64
	failWith error
}

func newStubPodcasts(users *stubUsers) *stubPodcasts {
	return &stubPodcasts{users: users, nextID: 1}
}

func (s *stubPodcasts) CreateWithQuota(ctx context.Context, record *domain.PodcastRecord, now time.Time) (*domain.PodcastRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, 0, s.failWith
	}
	s.users.mu.Lock()
	defer s.users.mu.Unlock()
	user, ok := s.users.users[record.OwnerEmail]
	if !ok {
		return nil, 0, domain.ErrNotFound
	}
	if user.NeedsMonthlyReset(now) {
		user.MonthlyCount = 0
		reset := now
		user.LastGenerationReset = &reset
	}
	remaining := domain.UnlimitedGenerations
	if !user.Unlimited() {
		limit := user.EffectiveLimit()
		if user.MonthlyCount >= limit {
			return nil, 0, &domain.QuotaExceededError{Limit: limit}
		}
		remaining = limit - user.MonthlyCount - 1
	}
	user.MonthlyCount++
	stored := *record
	stored.ID = s.nextID
	stored.CreatedAt = now
	s.nextID++
	s.records = append(s.records, stored)
	return &stored, remaining, nil
}

func (s *stubPodcasts) ListByOwner(ctx context.Context, email string, limit int) ([]domain.PodcastRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PodcastRecord
	for _, r := range s.records {
		if r.OwnerEmail == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubPodcasts) GetByID(ctx context.Context, id int64) (*domain.PodcastRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			copied := s.records[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubPodcasts) Delete(ctx context.Context, id int64, ownerEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id && s.records[i].OwnerEmail == ownerEmail {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *stubPodcasts) recordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// stubStore is an in-memory ArtifactStore.
type stubStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	removed []string
}

func newStubStore() *stubStore {
	return &stubStore{files: make(map[string][]byte)}
}

func (s *stubStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = append([]byte(nil), data...)
	return key, nil
}

func (s *stubStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	s.removed = append(s.removed, key)
	return nil
}

func (s *stubStore) fileCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// synthFunc adapts a function to speech.Synthesizer.
type synthFunc func(ctx context.Context, input speech.SynthesisInput) ([]byte, error)

func (f synthFunc) Synthesize(ctx context.Context, input speech.SynthesisInput) ([]byte, error) {
	return f(ctx, input)
}

// translateFunc adapts a function to translate.Translator.
type translateFunc func(ctx context.Context, text, target string) (string, error)

func (f translateFunc) Translate(ctx context.Context, text, target string) (string, error) {
	return f(ctx, text, target)
}

// inspectorFunc adapts a function to audio.Inspector.
type inspectorFunc func(data []byte) (float64, error)

func (f inspectorFunc) Duration(data []byte) (float64, error) {
	return f(data)
}
