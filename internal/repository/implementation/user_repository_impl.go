package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/mapper"
	"disease-predictor-be/internal/model"
	"disease-predictor-be/internal/repository/contract"
	"disease-predictor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

// NewUserRepository expects db to be opened with TranslateError enabled so
// unique violations surface as gorm.ErrDuplicatedKey.
func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", entity.ErrStorageUnavailable, op, err)
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var modelUser model.User
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByUsername{Username: username},
		specification.WithPredictions{},
	)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr("find user", err)
	}

	user, err := r.mapper.ToEntity(&modelUser)
	if err != nil {
		return nil, storageErr("decode user", err)
	}
	return user, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entity.ErrDuplicateUsername
		}
		return storageErr("create user", err)
	}
	user.CreatedAt = modelUser.CreatedAt
	return r.appendMissing(ctx, r.db, user, 0)
}

func (r *UserRepositoryImpl) Save(ctx context.Context, user *entity.User) error {
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		modelUser := r.mapper.ToModel(user)
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "password_hash"}),
		}).Create(modelUser).Error
		if err != nil {
			return storageErr("upsert user", err)
		}

		// On conflict the stored id wins over the one we generated.
		var stored model.User
		if err := tx.Select("id", "created_at").Where("username = ?", user.Username).First(&stored).Error; err != nil {
			return storageErr("reload user", err)
		}
		user.Id = stored.Id
		user.CreatedAt = stored.CreatedAt

		var existing int64
		query := r.applySpecifications(tx.Model(&model.Prediction{}), specification.UserOwnedBy{UserID: user.Id})
		if err := query.Count(&existing).Error; err != nil {
			return storageErr("count predictions", err)
		}
		return r.appendMissing(ctx, tx, user, int(existing))
	})
}

// appendMissing inserts user.Predictions[from:] in order.
func (r *UserRepositoryImpl) appendMissing(ctx context.Context, db *gorm.DB, user *entity.User, from int) error {
	for i := from; i < len(user.Predictions); i++ {
		rec := &user.Predictions[i]
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
		row, err := r.mapper.PredictionToModel(user, rec)
		if err != nil {
			return storageErr("encode prediction", err)
		}
		if err := db.WithContext(ctx).Create(row).Error; err != nil {
			return storageErr("insert prediction", err)
		}
	}
	return nil
}

func (r *UserRepositoryImpl) AppendPrediction(ctx context.Context, username string, record *entity.PredictionRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner model.User
		err := specification.ByUsername{Username: username}.Apply(tx.Select("id")).First(&owner).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrUserNotFound
			}
			return storageErr("find owner", err)
		}

		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now()
		}
		row, err := r.mapper.PredictionToModel(&entity.User{Id: owner.Id}, record)
		if err != nil {
			return storageErr("encode prediction", err)
		}
		if err := tx.Create(row).Error; err != nil {
			return storageErr("insert prediction", err)
		}
		return nil
	})
}
