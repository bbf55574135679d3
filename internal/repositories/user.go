package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-coach/internal/models"
)

type UserRepository interface {
	Upsert(user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert keeps the stored email and name when the new values are empty.
func (r *userRepository) Upsert(user *models.User) error {
	updates := []string{}
	if user.Email != "" {
		updates = append(updates, "email")
	}
	if user.Name != "" {
		updates = append(updates, "name")
	}

	onConflict := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}
	if len(updates) > 0 {
		onConflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(updates),
		}
	}

	if err := r.db.Clauses(onConflict).Create(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
