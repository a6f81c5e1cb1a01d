package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
)

const (
	validName     = "Alice Wonderland Smith"
	validPassword = "Passw0rd!"
	validAddress  = "12 Rue de Rivoli, Paris"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Search(_ context.Context, f ports.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	needle := strings.ToLower(f.Search)
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		hay := strings.ToLower(u.Name + " " + u.Email + " " + u.Address)
		if needle != "" && !strings.Contains(hay, needle) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubUserRepo) put(u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(&u)
}

type stubStoreRepo struct {
	stores  []domain.Store
	ratings *stubRatingRepo
	created []domain.Store
}

func (r *stubStoreRepo) Create(_ context.Context, store *domain.Store) (*domain.Store, error) {
	for _, s := range r.stores {
		if store.OwnerID != "" && s.OwnerID == store.OwnerID {
			return nil, domain.ErrOwnerHasStore
		}
	}
	r.stores = append(r.stores, *store)
	r.created = append(r.created, *store)
	clone := *store
	return &clone, nil
}

func (r *stubStoreRepo) view(s domain.Store, viewerID string) domain.StoreView {
	v := domain.StoreView{Store: s}
	var sum int
	for _, rt := range r.ratings.rows {
		if rt.StoreID != s.ID {
			continue
		}
		sum += rt.Score
		v.RatingCount++
		if rt.UserID == viewerID {
			score := rt.Score
			v.ViewerRating = &score
		}
	}
	if v.RatingCount > 0 {
		v.AverageRating = float64(sum) / float64(v.RatingCount)
	}
	return v
}

func (r *stubStoreRepo) ListForViewer(_ context.Context, viewerID, search string) ([]domain.StoreView, error) {
	var out []domain.StoreView
	for _, s := range r.stores {
		if search != "" && !strings.Contains(strings.ToLower(s.Name+" "+s.Address), strings.ToLower(search)) {
			continue
		}
		out = append(out, r.view(s, viewerID))
	}
	return out, nil
}

func (r *stubStoreRepo) SearchAdmin(_ context.Context, search string) ([]domain.AdminStoreView, error) {
	var out []domain.AdminStoreView
	for _, s := range r.stores {
		if search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, domain.AdminStoreView{Store: s, AverageRating: r.view(s, "").AverageRating})
	}
	return out, nil
}

func (r *stubStoreRepo) FindByOwner(_ context.Context, ownerID string) ([]domain.StoreView, error) {
	var out []domain.StoreView
	for _, s := range r.stores {
		if s.OwnerID == ownerID {
			out = append(out, r.view(s, ""))
		}
	}
	return out, nil
}

type stubRatingRepo struct {
	mu     sync.Mutex
	rows   []domain.Rating
	stores map[string]bool
	users  map[string]domain.User
}

func newStubRatingRepo() *stubRatingRepo {
	return &stubRatingRepo{stores: make(map[string]bool), users: make(map[string]domain.User)}
}

func (r *stubRatingRepo) Upsert(_ context.Context, userID, storeID string, score int) (domain.RatingOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.stores[storeID] {
		return domain.RatingOutcome{}, domain.ErrStoreNotFound
	}
	now := time.Now().UTC()
	for i := range r.rows {
		if r.rows[i].UserID == userID && r.rows[i].StoreID == storeID {
			r.rows[i].Score = score
			r.rows[i].UpdatedAt = now
			return domain.RatingOutcome{Rating: r.rows[i]}, nil
		}
	}
	row := domain.Rating{ID: uuid.NewString(), UserID: userID, StoreID: storeID, Score: score, CreatedAt: now, UpdatedAt: now}
	r.rows = append(r.rows, row)
	return domain.RatingOutcome{Rating: row, Created: true}, nil
}

func (r *stubRatingRepo) ListForStore(_ context.Context, storeID string) ([]domain.RatingDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.RatingDetail
	for _, row := range r.rows {
		if row.StoreID != storeID {
			continue
		}
		u := r.users[row.UserID]
		out = append(out, domain.RatingDetail{Rating: row, UserName: u.Name, UserEmail: u.Email})
	}
	return out, nil
}

type stubStats struct {
	counts domain.PlatformCounts
}

func (s stubStats) Counts(context.Context) (domain.PlatformCounts, error) { return s.counts, nil }

type recordingSink struct {
	mu     sync.Mutex
	events []domain.RatingEvent
}

func (s *recordingSink) Publish(e domain.RatingEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

type memThrottle struct {
	max      int
	failures map[string]int
}

func newMemThrottle(max int) *memThrottle {
	return &memThrottle{max: max, failures: make(map[string]int)}
}

func (t *memThrottle) Locked(_ context.Context, email string) (bool, error) {
	return t.failures[email] >= t.max, nil
}

func (t *memThrottle) Fail(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *memThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	return nil
}

type chanNotifier struct {
	sent chan string
}

func (n chanNotifier) Welcome(_ context.Context, _, email string) error {
	n.sent <- email
	return nil
}
