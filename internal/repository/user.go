package repository

import (
	"context"

	"lumen/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error)
	UpdateProfile(ctx context.Context, id uint, fullname string, bio *string) error
	AdjustCounter(ctx context.Context, id uint, counter Counter, delta int) error
	List(ctx context.Context, limit int) ([]*models.User, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateIfAbsent inserts user unless its external identity already exists.
// On conflict user is left untouched and false is returned.
func (r *userRepository) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "external_id"}}, DoNothing: true}).
		Create(user)
	if res.Error != nil {
		return false, wrapErr(res.Error, "User", user.ExternalID)
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapErr(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		return nil, wrapErr(err, "User", externalID)
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error) {
	out := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", uniqueIDs(ids)).Find(&users).Error; err != nil {
		return nil, wrapErr(err, "User", ids)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// UpdateProfile sets fullname and, when bio is non-nil, bio. The caller is
// expected to have resolved the user.
func (r *userRepository) UpdateProfile(ctx context.Context, id uint, fullname string, bio *string) error {
	fields := map[string]interface{}{"fullname": fullname}
	if bio != nil {
		fields["bio"] = *bio
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
	return wrapErr(err, "User", id)
}

func (r *userRepository) AdjustCounter(ctx context.Context, id uint, counter Counter, delta int) error {
	if err := checkCounter(userCounters, counter, "user"); err != nil {
		return models.NewInternalError(err)
	}
	// Callers resolve the row first; MySQL reports zero affected rows for
	// no-op updates, so RowsAffected cannot signal a missing user.
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn(string(counter), counterExpr(counter, delta)).Error
	return wrapErr(err, "User", id)
}

func (r *userRepository) List(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	q := r.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, wrapErr(err, "User", "list")
	}
	return users, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
