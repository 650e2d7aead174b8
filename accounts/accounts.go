package accounts

import (
	"fmt"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// RoleType represents an account's authorization level
type RoleType string

const (
	RoleStandard RoleType = "standard" // Regular marketplace customer
	RoleAdmin    RoleType = "admin"    // Can manage the catalogue and other accounts
)

// bcryptCost is deliberately above the library default to slow offline
// brute force on leaked digests.
const bcryptCost = 12

// Account is a persisted user record. An account always carries at least
// one authentication means: a password hash, a Google subject id, or both.
type Account struct {
	ID           string    `json:"id,omitempty"`           // Unique identifier for the account
	Email        string    `json:"email,omitempty"`        // Email address, unique, stored lowercase
	DisplayName  string    `json:"display_name,omitempty"` // Name shown in the frontend
	GoogleID     string    `json:"-"`                      // Google subject id when the account came via OAuth
	PasswordHash string    `json:"-"`                      // Hashed password - never serialize
	RefreshToken string    `json:"-"`                      // Google refresh token - never serialize
	Role         RoleType  `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// IsAdmin reports whether the account holds the administrator role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// HasCredential reports whether the account has at least one way to
// authenticate. Persisting an account for which this is false is a bug.
func (a *Account) HasCredential() bool {
	return a.PasswordHash != "" || a.GoogleID != ""
}

// ValidatePasswordStrength checks if a password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

// HashPassword produces a salted bcrypt digest. The salt is random per
// call, so hashing the same plaintext twice yields different digests.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash verifies a plaintext password against a digest.
// A malformed digest is treated as a mismatch, never an error.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
