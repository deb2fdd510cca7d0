// Package user holds dashboard account management: registration, login and
// linking a Stellar wallet address to an account.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a dashboard account. WalletAddress is the Stellar account the user
// linked for history attribution; empty until linked.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	WalletAddress string     `json:"wallet_address,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

// Validate checks structural invariants before persistence.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserNotFound
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if u.PasswordHash == "" {
		return ErrInvalidPassword
	}
	if u.WalletAddress != "" && !isStellarAccountID(u.WalletAddress) {
		return ErrInvalidWalletAddress
	}
	return nil
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a password against the stored hash.
func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// UpdateLastLogin stamps the last successful login.
func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// isStellarAccountID accepts 56-character strkey account IDs (G...).
func isStellarAccountID(addr string) bool {
	if len(addr) != 56 || addr[0] != 'G' {
		return false
	}
	const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
	for _, r := range addr {
		if !strings.ContainsRune(base32Alphabet, r) {
			return false
		}
	}
	return true
}
