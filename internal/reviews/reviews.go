package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuseumTrail/MT-Backend/internal/auth"
	"github.com/MuseumTrail/MT-Backend/internal/db"
)

var (
	ErrInvalidReview = errors.New("invalid review or rating")
	ErrUnknownUser   = errors.New("review author does not exist")
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is append-only. UserID references users; MuseumKey refers to the
// static catalog, not a table.
type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"not null;index"`
	MuseumKey string    `gorm:"not null;index"`
	Rating    int       `gorm:"not null"`
	Text      string    `gorm:"column:review_text;not null"`
	Timestamp time.Time `gorm:"not null;autoCreateTime"`

	User auth.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Review) TableName() string { return "reviews" }

// Entry is a review joined with its author's username for display.
type Entry struct {
	ID        uint
	Username  string
	Rating    int
	Text      string
	Timestamp time.Time
}

type Ledger struct {
	db *gorm.DB
}

func NewLedger(d *gorm.DB) *Ledger {
	return &Ledger{db: d}
}

func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&Review{})
}

// Add appends a review. Empty text or a rating outside 1..5 is rejected with
// ErrInvalidReview and nothing is stored. Whitespace counts as text.
func (l *Ledger) Add(ctx context.Context, userID uint, museumKey string, rating int, text string) error {
	if text == "" || rating < MinRating || rating > MaxRating {
		return ErrInvalidReview
	}

	review := Review{
		UserID:    userID,
		MuseumKey: museumKey,
		Rating:    rating,
		Text:      text,
	}
	err := l.db.WithContext(ctx).Omit(clause.Associations).Create(&review).Error
	if db.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %d", ErrUnknownUser, userID)
	}
	if err != nil {
		return fmt.Errorf("add review: %w", err)
	}
	return nil
}

// List returns every review of a museum, newest first. Reviews sharing a
// timestamp come back in reverse insertion order.
func (l *Ledger) List(ctx context.Context, museumKey string) ([]Entry, error) {
	entries := make([]Entry, 0)
	err := l.db.WithContext(ctx).
		Table("reviews AS r").
		Select("r.id, u.username, r.rating, r.review_text AS text, r.timestamp").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.museum_key = ?", museumKey).
		Order("r.timestamp DESC, r.id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews for %s: %w", museumKey, err)
	}
	return entries, nil
}
