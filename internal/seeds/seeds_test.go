package seeds

import (
	"context"
	"testing"

	"github.com/MuseumTrail/MT-Backend/internal/auth"
	"github.com/MuseumTrail/MT-Backend/internal/catalog"
	"github.com/MuseumTrail/MT-Backend/internal/db/dbtest"
	"github.com/MuseumTrail/MT-Backend/internal/reviews"
)

func TestSeedAll_Idempotent(t *testing.T) {
	d := dbtest.Open(t, &auth.User{}, &auth.Session{}, &reviews.Review{})
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := SeedAll(ctx, d, cat); err != nil {
		t.Fatalf("first SeedAll: %v", err)
	}
	if err := SeedAll(ctx, d, cat); err != nil {
		t.Fatalf("second SeedAll: %v", err)
	}

	data, err := Demo()
	if err != nil {
		t.Fatal(err)
	}

	var users, revs int64
	d.Model(&auth.User{}).Count(&users)
	d.Model(&reviews.Review{}).Count(&revs)
	if int(users) != len(data.Users) {
		t.Errorf("expected %d users, got %d", len(data.Users), users)
	}
	if int(revs) != len(data.Reviews) {
		t.Errorf("expected %d reviews, got %d", len(data.Reviews), revs)
	}

	u, err := auth.NewIdentity(d).VerifyCredentials(ctx, data.Users[0].Username, data.Users[0].Password)
	if err != nil || u == nil {
		t.Errorf("seeded user cannot log in: user=%v err=%v", u, err)
	}
}

func TestSeedReviews_SkipsUnknownMuseumAndUser(t *testing.T) {
	d := dbtest.Open(t, &auth.User{}, &auth.Session{}, &reviews.Review{})
	cat, _ := catalog.Default()
	ctx := context.Background()

	if err := SeedUsers(ctx, d, []DemoUser{{Username: "asha", Email: "a@x.io", Password: "secret1"}}); err != nil {
		t.Fatal(err)
	}
	err := SeedReviews(ctx, d, cat, []DemoReview{
		{Username: "asha", MuseumKey: "louvre_paris", Rating: 5, Text: "nope"},
		{Username: "ghost", MuseumKey: "bihar_museum_patna", Rating: 5, Text: "nope"},
		{Username: "asha", MuseumKey: "bihar_museum_patna", Rating: 3, Text: "fine"},
	})
	if err != nil {
		t.Fatalf("SeedReviews: %v", err)
	}

	got, err := reviews.NewLedger(d).List(ctx, "bihar_museum_patna")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Username != "asha" {
		t.Errorf("unexpected reviews: %+v", got)
	}
}

func TestSeedReviews_InvalidRatingFails(t *testing.T) {
	d := dbtest.Open(t, &auth.User{}, &auth.Session{}, &reviews.Review{})
	cat, _ := catalog.Default()
	ctx := context.Background()

	_ = SeedUsers(ctx, d, []DemoUser{{Username: "asha", Email: "a@x.io", Password: "secret1"}})
	err := SeedReviews(ctx, d, cat, []DemoReview{{Username: "asha", MuseumKey: "bihar_museum_patna", Rating: 9, Text: "x"}})
	if err == nil {
		t.Error("expected error for out-of-range rating")
	}
}
