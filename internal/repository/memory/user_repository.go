package memory

import (
	"context"
	"sync"
	"time"

	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// UserRepository keeps accounts in process memory. Documents never expire.
type UserRepository struct {
	cache *cache.Cache

	// serializes read-modify-write on a single document
	mu sync.Mutex
}

func NewUserRepository() contract.UserRepository {
	return &UserRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func cloneUser(u *entity.User) *entity.User {
	out := *u
	out.Predictions = make([]entity.PredictionRecord, len(u.Predictions))
	for i, p := range u.Predictions {
		p.InputFeatures = append(entity.Features(nil), p.InputFeatures...)
		out.Predictions[i] = p
	}
	return &out
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	x, found := r.cache.Get(username)
	if !found {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(x.(*entity.User)), nil
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	// Add is atomic: exactly one concurrent caller wins the key.
	if err := r.cache.Add(user.Username, cloneUser(user), cache.NoExpiration); err != nil {
		return entity.ErrDuplicateUsername
	}
	return nil
}

func (r *UserRepository) Save(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(user.Username); found {
		user.Id = x.(*entity.User).Id
		user.CreatedAt = x.(*entity.User).CreatedAt
	}
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.cache.Set(user.Username, cloneUser(user), cache.NoExpiration)
	return nil
}

func (r *UserRepository) AppendPrediction(_ context.Context, username string, record *entity.PredictionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(username)
	if !found {
		return entity.ErrUserNotFound
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	stored := x.(*entity.User)
	rec := *record
	rec.InputFeatures = append(entity.Features(nil), record.InputFeatures...)
	stored.Predictions = append(stored.Predictions, rec)
	return nil
}
