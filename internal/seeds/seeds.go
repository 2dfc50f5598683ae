// Package seeds loads demo accounts and reviews into a fresh database.
package seeds

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/MuseumTrail/MT-Backend/internal/auth"
	"github.com/MuseumTrail/MT-Backend/internal/catalog"
	"github.com/MuseumTrail/MT-Backend/internal/reviews"
)

//go:embed data/demo.json
var demoData []byte

type DemoUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DemoReview struct {
	Username  string `json:"username"`
	MuseumKey string `json:"museum_key"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
}

type Data struct {
	Users   []DemoUser   `json:"users"`
	Reviews []DemoReview `json:"reviews"`
}

func Demo() (Data, error) {
	var d Data
	if err := json.Unmarshal(demoData, &d); err != nil {
		return Data{}, fmt.Errorf("failed to parse demo.json: %w", err)
	}
	return d, nil
}

// SeedAll seeds the embedded demo data. Running it twice is harmless.
func SeedAll(ctx context.Context, d *gorm.DB, cat *catalog.Catalog) error {
	data, err := Demo()
	if err != nil {
		return err
	}
	if err := SeedUsers(ctx, d, data.Users); err != nil {
		return err
	}
	return SeedReviews(ctx, d, cat, data.Reviews)
}

func SeedUsers(ctx context.Context, d *gorm.DB, users []DemoUser) error {
	identity := auth.NewIdentity(d)
	created := 0
	for _, u := range users {
		_, err := identity.CreateUser(ctx, u.Username, u.Email, u.Password)
		if errors.Is(err, auth.ErrDuplicateUsername) {
			log.Printf("⚠️ User exists, skipping: %s", u.Username)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}
		created++
	}
	log.Printf("✅ Seeded %d users", created)
	return nil
}

// SeedReviews adds each review unless its author already reviewed that museum.
// Reviews naming an unknown user or museum are skipped.
func SeedReviews(ctx context.Context, d *gorm.DB, cat *catalog.Catalog, items []DemoReview) error {
	identity := auth.NewIdentity(d)
	ledger := reviews.NewLedger(d)
	created := 0

	for _, item := range items {
		if _, err := cat.Get(item.MuseumKey); err != nil {
			log.Printf("⚠️ Unknown museum, skipping review: %s", item.MuseumKey)
			continue
		}
		userID, err := identity.UserID(ctx, item.Username)
		if errors.Is(err, auth.ErrUserNotFound) {
			log.Printf("⚠️ Unknown user, skipping review: %s", item.Username)
			continue
		} else if err != nil {
			return fmt.Errorf("DB error on user %s: %w", item.Username, err)
		}

		var count int64
		err = d.WithContext(ctx).Model(&reviews.Review{}).
			Where("user_id = ? AND museum_key = ?", userID, item.MuseumKey).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("DB error on review %s/%s: %w", item.Username, item.MuseumKey, err)
		}
		if count > 0 {
			log.Printf("⚠️ Review exists, skipping: %s on %s", item.Username, item.MuseumKey)
			continue
		}

		if err := ledger.Add(ctx, userID, item.MuseumKey, item.Rating, item.Text); err != nil {
			return fmt.Errorf("failed to add review %s/%s: %w", item.Username, item.MuseumKey, err)
		}
		created++
	}

	log.Printf("✅ Seeded %d reviews", created)
	return nil
}
