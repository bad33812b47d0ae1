package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Password policy bounds. The upper bound is bcrypt's practical limit.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// Common user validation errors.
var (
	ErrEmptyName          = NewValidationError("name", "cannot be empty", ErrValidation)
	ErrEmptyEmail         = NewValidationError("email", "cannot be empty", ErrValidation)
	ErrInvalidEmail       = NewValidationError("email", "is not a valid address", ErrValidation)
	ErrEmptyPassword      = NewValidationError("password", "cannot be empty", ErrValidation)
	ErrPasswordTooShort   = NewValidationError("password", "must be at least 6 characters", ErrValidation)
	ErrPasswordTooLong    = NewValidationError("password", "must be at most 72 characters", ErrValidation)
	ErrPasswordIsPassword = NewValidationError("password", `cannot contain the word "password"`, ErrValidation)
	ErrNegativeAge        = NewValidationError("age", "cannot be negative", ErrValidation)
)

// User represents a registered account. Password holds a plaintext value
// only transiently, between request decoding and hashing; it is never
// persisted or serialized. Tokens is the set of currently valid session
// tokens; Avatar is the raw profile image blob. None of the three appear
// in any external representation of the user.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
	Age            int       `json:"age"`
	Avatar         []byte    `json:"-"`
	Tokens         []string  `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User from registration input, trimming the name and
// normalizing the email. The caller (the user store) is responsible for
// hashing the password before persisting.
func NewUser(name, email, password string, age int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  password,
		Age:       age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate runs a single explicit validation pass over all fields.
// It returns the first failure as a *ValidationError.
func (u *User) Validate() error {
	if err := ValidateName(u.Name); err != nil {
		return err
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return err
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}
	if u.Age < 0 {
		return ErrNegativeAge
	}
	return nil
}

// NormalizeEmail trims surrounding whitespace and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName requires a non-empty trimmed name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// ValidateEmail performs a structural check of an email address: a single
// "@" with a non-empty local part and a dotted domain. Full RFC 5322
// validation is left to the request-level validator.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}

	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return ErrInvalidEmail
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return ErrInvalidEmail
	}

	if strings.ContainsAny(email, " \t\r\n") {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword enforces the password policy: 6-72 characters and no
// occurrence of the word "password" in any casing.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	case strings.Contains(strings.ToLower(password), "password"):
		return ErrPasswordIsPassword
	}
	return nil
}
