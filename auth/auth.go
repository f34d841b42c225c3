// Package auth hashes and checks the operator credential.
//
// New credentials are bcrypt hashes. Ledger files written by earlier
// versions carry unsalted SHA-256 hex digests; those still verify so an
// existing operator is not locked out, and Upgrade rewrites them as bcrypt.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword verifies password against a bcrypt or legacy SHA-256 hash.
func CheckPassword(hash, password string) error {
	if IsLegacyHash(hash) {
		sum := sha256.Sum256([]byte(password))
		if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(hash)) == 1 {
			return nil
		}
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IsLegacyHash reports whether hash is a 64-character hex SHA-256 digest.
func IsLegacyHash(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// CredentialStore is the slice of payroll.Store the authenticator needs.
type CredentialStore interface {
	Credential(user string) (string, bool)
	SetCredential(ctx context.Context, user, hash string) error
}

// Authenticator checks operator logins against a CredentialStore.
type Authenticator struct {
	store CredentialStore
}

func NewAuthenticator(store CredentialStore) *Authenticator {
	return &Authenticator{store: store}
}

// Check verifies user and password.
func (a *Authenticator) Check(user, password string) error {
	hash, ok := a.store.Credential(user)
	if !ok {
		return ErrInvalidCredentials
	}
	return CheckPassword(hash, password)
}

// SetPassword stores a bcrypt hash for user.
func (a *Authenticator) SetPassword(ctx context.Context, user, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return a.store.SetCredential(ctx, user, hash)
}

// Upgrade replaces a legacy hash with bcrypt after a successful check.
func (a *Authenticator) Upgrade(ctx context.Context, user, password string) error {
	hash, ok := a.store.Credential(user)
	if !ok || !IsLegacyHash(hash) {
		return nil
	}
	if err := CheckPassword(hash, password); err != nil {
		return err
	}
	return a.SetPassword(ctx, user, password)
}
