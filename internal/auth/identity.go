package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MuseumTrail/MT-Backend/internal/db"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUserNotFound      = errors.New("user not found")
)

const MinPasswordLength = 6

// ValidationError carries a message that can be shown to the user as is.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// Identity creates and looks up user accounts.
type Identity struct {
	db *gorm.DB
}

func NewIdentity(d *gorm.DB) *Identity {
	return &Identity{db: d}
}

// ValidateSignup checks a signup form in the order the user sees the notices:
// completeness, a taken username, password confirmation, password length.
func (id *Identity) ValidateSignup(ctx context.Context, form SignupForm) error {
	if form.Username == "" || form.Email == "" || form.Password == "" {
		return &ValidationError{Message: "Please complete all fields"}
	}

	taken, err := id.usernameTaken(ctx, form.Username)
	if err != nil {
		return err
	}
	if taken {
		return &ValidationError{Message: "Username already exists", Err: ErrDuplicateUsername}
	}

	if form.Password != form.ConfirmPassword {
		return &ValidationError{Message: "Passwords do not match"}
	}
	if len(form.Password) < MinPasswordLength {
		return &ValidationError{Message: fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// CreateUser stores a new account with a bcrypt hash of password. A username
// that is already taken yields ErrDuplicateUsername, whether it is caught by the
// lookup or by the unique index during a concurrent signup.
func (id *Identity) CreateUser(ctx context.Context, username, email, password string) (uint, error) {
	taken, err := id.usernameTaken(ctx, username)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrDuplicateUsername
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := id.db.WithContext(ctx).Create(&user).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}

// VerifyCredentials returns the matching user, or nil when the username is
// unknown or the password is wrong. Only store failures are errors.
//
// An unknown username returns without running bcrypt, so the two cases are not
// timing-equivalent.
func (id *Identity) VerifyCredentials(ctx context.Context, username, password string) (*User, error) {
	user, err := id.FindByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}

func (id *Identity) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := id.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", username, err)
	}
	return &user, nil
}

// UserID resolves the numeric id for username.
func (id *Identity) UserID(ctx context.Context, username string) (uint, error) {
	user, err := id.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (id *Identity) usernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := id.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}

// TrimSignupForm applies the same trimming as the signup page: username and
// email lose surrounding whitespace, passwords are kept verbatim.
func TrimSignupForm(form SignupForm) SignupForm {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	return form
}
