package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"glauniversity/ats-matcher/internal/models"
	"glauniversity/ats-matcher/internal/repositories"
)

// PasswordHasher hides the digest algorithm behind the credential table.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

func NewPasswordHasher(algorithm string) (PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", "sha256":
		return sha256Hasher{}, nil
	case "bcrypt":
		return bcryptHasher{cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}
}

// sha256Hasher stores hex encoded, unsalted SHA-256 digests.
type sha256Hasher struct{}

func (sha256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h sha256Hasher) Check(password, hash string) bool {
	digest, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(hash))) == 1
}

type bcryptHasher struct {
	cost int
}

func (b bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CredentialStore resolves a username to its stored password hash.
type CredentialStore interface {
	LookupHash(ctx context.Context, username string) (string, bool, error)
}

type staticCredentialStore struct {
	users map[string]string
}

// NewStaticCredentialStore serves a fixed table built at startup.
func NewStaticCredentialStore(users map[string]string) CredentialStore {
	table := make(map[string]string, len(users))
	for name, hash := range users {
		table[name] = hash
	}
	return &staticCredentialStore{users: table}
}

func (s *staticCredentialStore) LookupHash(_ context.Context, username string) (string, bool, error) {
	hash, ok := s.users[username]
	return hash, ok, nil
}

type repositoryCredentialStore struct {
	users repositories.UserRepository
}

func NewRepositoryCredentialStore(users repositories.UserRepository) CredentialStore {
	return &repositoryCredentialStore{users: users}
}

func (r *repositoryCredentialStore) LookupHash(ctx context.Context, username string) (string, bool, error) {
	user, err := r.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return user.PasswordHash, true, nil
}

// SeedUsers writes the configured table into the user repository.
func SeedUsers(ctx context.Context, users repositories.UserRepository, table map[string]string) error {
	for name, hash := range table {
		if err := users.Upsert(ctx, &models.User{Username: name, PasswordHash: hash}); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", name, err)
		}
	}
	return nil
}

type CredentialVerifier interface {
	// Verify reports whether password matches the stored hash for username.
	// Unknown users and wrong passwords are indistinguishable.
	Verify(ctx context.Context, username, password string) bool
}

type credentialVerifier struct {
	store  CredentialStore
	hasher PasswordHasher
	log    *zap.Logger
}

func NewCredentialVerifier(store CredentialStore, hasher PasswordHasher, log *zap.Logger) CredentialVerifier {
	return &credentialVerifier{
		store:  store,
		hasher: hasher,
		log:    log,
	}
}

// Verify implements CredentialVerifier.
func (v *credentialVerifier) Verify(ctx context.Context, username, password string) bool {
	hash, ok, err := v.store.LookupHash(ctx, username)
	if err != nil {
		v.log.Error("credential lookup failed", zap.String("username", username), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	return v.hasher.Check(password, hash)
}
