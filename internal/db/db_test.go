package db_test

import (
	"errors"
	"testing"

	"github.com/MuseumTrail/MT-Backend/internal/db"
	"github.com/MuseumTrail/MT-Backend/internal/db/dbtest"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func TestIsPostgres(t *testing.T) {
	cases := map[string]bool{
		"postgres://u:p@localhost:5432/app":   true,
		"postgresql://u:p@localhost:5432/app": true,
		"host=localhost user=app dbname=app":  true,
		"data/museum_app.db":                  false,
		"file:test?mode=memory":               false,
	}
	for dsn, want := range cases {
		if got := db.IsPostgres(dsn); got != want {
			t.Errorf("IsPostgres(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	conn := dbtest.Open(t, &widget{})

	if err := conn.Create(&widget{Name: "clock"}).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := conn.Create(&widget{Name: "clock"}).Error
	if err == nil {
		t.Fatal("expected unique constraint error on second insert")
	}
	if !db.IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestIsUniqueViolation_OtherErrors(t *testing.T) {
	if db.IsUniqueViolation(nil) {
		t.Error("nil must not be a unique violation")
	}
	if db.IsUniqueViolation(errors.New("boom")) {
		t.Error("plain error must not be a unique violation")
	}
	if db.IsUniqueViolation(gorm.ErrRecordNotFound) {
		t.Error("record not found must not be a unique violation")
	}
	if !db.IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("SQLSTATE 23505 must be a unique violation")
	}
	if db.IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation must not be a unique violation")
	}
}

type owner struct {
	ID uint `gorm:"primaryKey"`
}

type gadget struct {
	ID      uint  `gorm:"primaryKey"`
	OwnerID uint  `gorm:"not null"`
	Owner   owner `gorm:"foreignKey:OwnerID"`
}

func TestIsForeignKeyViolation_SQLite(t *testing.T) {
	conn := dbtest.Open(t, &owner{}, &gadget{})

	err := conn.Create(&gadget{OwnerID: 42}).Error
	if err == nil {
		t.Fatal("expected foreign key error for a missing owner")
	}
	if !db.IsForeignKeyViolation(err) {
		t.Errorf("expected foreign key violation, got %v", err)
	}
	if db.IsUniqueViolation(err) {
		t.Error("foreign key violation must not be a unique violation")
	}
}

func TestIsForeignKeyViolation_OtherErrors(t *testing.T) {
	if db.IsForeignKeyViolation(nil) {
		t.Error("nil must not be a foreign key violation")
	}
	if db.IsForeignKeyViolation(errors.New("boom")) {
		t.Error("plain error must not be a foreign key violation")
	}
	if !db.IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("SQLSTATE 23503 must be a foreign key violation")
	}
	if db.IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation must not be a foreign key violation")
	}
}
