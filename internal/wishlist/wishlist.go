// Package wishlist tracks whether a user has visited a museum or still has it
// on their wishlist.
package wishlist

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuseumTrail/MT-Backend/internal/auth"
	"github.com/MuseumTrail/MT-Backend/internal/db"
)

var ErrUnknownUser = errors.New("wishlist owner does not exist")

// Status is one row per (user, museum). A missing row means "on the wishlist".
type Status struct {
	UserID    uint   `gorm:"primaryKey;autoIncrement:false"`
	MuseumKey string `gorm:"primaryKey"`
	IsVisited bool   `gorm:"not null;default:false"`

	User auth.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Status) TableName() string { return "wishlist_status" }

type Tracker struct {
	db *gorm.DB
}

func NewTracker(d *gorm.DB) *Tracker {
	return &Tracker{db: d}
}

func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&Status{})
}

// Status reports whether the user has marked the museum as visited.
func (t *Tracker) Status(ctx context.Context, userID uint, museumKey string) (bool, error) {
	var row Status
	err := t.db.WithContext(ctx).
		Where("user_id = ? AND museum_key = ?", userID, museumKey).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("wishlist status: %w", err)
	}
	return row.IsVisited, nil
}

// Toggle flips the visited flag and returns the new value. The read and the
// upsert are separate statements; concurrent toggles resolve last-write-wins.
func (t *Tracker) Toggle(ctx context.Context, userID uint, museumKey string) (bool, error) {
	current, err := t.Status(ctx, userID, museumKey)
	if err != nil {
		return false, err
	}

	row := Status{UserID: userID, MuseumKey: museumKey, IsVisited: !current}
	err = t.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "museum_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_visited"}),
	}).Create(&row).Error
	if db.IsForeignKeyViolation(err) {
		return false, fmt.Errorf("%w: %d", ErrUnknownUser, userID)
	}
	if err != nil {
		return false, fmt.Errorf("toggle wishlist: %w", err)
	}
	return row.IsVisited, nil
}
