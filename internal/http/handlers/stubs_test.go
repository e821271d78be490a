package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/generation"
	"server/internal/providers/speech"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]domain.UserAccount
}

func newFakeUsers(accounts ...domain.UserAccount) *fakeUsers {
	f := &fakeUsers{users: make(map[string]domain.UserAccount)}
	for _, a := range accounts {
		f.users[a.Email] = a
	}
	return f
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.UserAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := u
	return &copy, nil
}

func (f *fakeUsers) ResetMonthlyCount(_ context.Context, email string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return domain.ErrNotFound
	}
	u.MonthlyCount = 0
	reset := now
	u.LastGenerationReset = &reset
	f.users[email] = u
	return nil
}

type fakePodcasts struct {
	mu      sync.Mutex
	users   *fakeUsers
	records map[int64]domain.PodcastRecord
	nextID  int64
}

func newFakePodcasts(users *fakeUsers) *fakePodcasts {
	return &fakePodcasts{users: users, records: make(map[int64]domain.PodcastRecord), nextID: 1}
}

func (f *fakePodcasts) CreateWithQuota(_ context.Context, record *domain.PodcastRecord, now time.Time) (*domain.PodcastRecord, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.users.mu.Lock()
	owner, ok := f.users.users[record.OwnerEmail]
	if !ok {
		f.users.mu.Unlock()
		return nil, 0, domain.ErrNotFound
	}
	if owner.NeedsMonthlyReset(now) {
		owner.MonthlyCount = 0
		reset := now
		owner.LastGenerationReset = &reset
	}
	limit := owner.EffectiveLimit()
	remaining := domain.UnlimitedGenerations
	if !owner.Unlimited() {
		if owner.MonthlyCount >= limit {
			f.users.mu.Unlock()
			return nil, 0, &domain.QuotaExceededError{Limit: limit}
		}
		remaining = limit - owner.MonthlyCount - 1
	}
	owner.MonthlyCount++
	f.users.users[record.OwnerEmail] = owner
	f.users.mu.Unlock()

	stored := *record
	stored.ID = f.nextID
	f.nextID++
	stored.CreatedAt = now
	stored.UpdatedAt = now
	f.records[stored.ID] = stored
	return &stored, remaining, nil
}

func (f *fakePodcasts) ListByOwner(_ context.Context, email string, limit int) ([]domain.PodcastRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PodcastRecord
	for _, rec := range f.records {
		if rec.OwnerEmail == email {
			out = append(out, rec)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePodcasts) GetByID(_ context.Context, id int64) (*domain.PodcastRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := rec
	return &copy, nil
}

func (f *fakePodcasts) Delete(_ context.Context, id int64, ownerEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok || rec.OwnerEmail != ownerEmail {
		return domain.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	removed []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (f *fakeStore) Write(_ context.Context, key string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[key] = data
	return key, nil
}

func (f *fakeStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, key)
	f.removed = append(f.removed, key)
	return nil
}

type synthFunc func(ctx context.Context, input speech.SynthesisInput) ([]byte, error)

func (f synthFunc) Synthesize(ctx context.Context, input speech.SynthesisInput) ([]byte, error) {
	return f(ctx, input)
}

func newTestApp(users *fakeUsers, podcasts *fakePodcasts, store *fakeStore) *App {
	coordinator, err := generation.NewCoordinator(generation.Options{
		Users:    users,
		Podcasts: podcasts,
		Synth: synthFunc(func(ctx context.Context, input speech.SynthesisInput) ([]byte, error) {
			return []byte("mp3-bytes"), nil
		}),
		Store: store,
	})
	if err != nil {
		panic(err)
	}
	return NewApp(coordinator, podcasts, store, zerolog.Nop())
}

func verifiedUser(email string) domain.UserAccount {
	return domain.UserAccount{
		ID:         1,
		Email:      email,
		IsVerified: true,
		Plan:       domain.PlanFree,
	}
}
