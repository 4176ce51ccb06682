package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/models"
	"glauniversity/ats-matcher/internal/repositories"
)

const (
	student123Digest   = "703b0a3d6ad75b649a28adde7d83c6251da457549263bc7ff45ec709b0a8448b"
	recruiter123Digest = "5006bc9c4a11684307bb20e04a22625a69a47553943bef5a435c26dbbc6b5da8"
)

type fakeUserRepository struct {
	users map[string]models.User
	err   error
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (f *fakeUserRepository) Upsert(_ context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	if f.users == nil {
		f.users = make(map[string]models.User)
	}
	f.users[user.Username] = *user
	return nil
}

func newStaticVerifier(t *testing.T) CredentialVerifier {
	t.Helper()

	hasher, err := NewPasswordHasher("sha256")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := NewStaticCredentialStore(map[string]string{
		"student":   student123Digest,
		"recruiter": recruiter123Digest,
	})
	return NewCredentialVerifier(store, hasher, zap.NewNop())
}

func TestCredentialVerifierStaticTable(t *testing.T) {
	verifier := newStaticVerifier(t)
	ctx := context.Background()

	cases := []struct {
		username string
		password string
		want     bool
	}{
		{"student", "student123", true},
		{"recruiter", "recruiter123", true},
		{"student", "recruiter123", false},
		{"student", "", false},
		{"nobody", "student123", false},
		{"Student", "student123", false},
	}

	for _, tc := range cases {
		if got := verifier.Verify(ctx, tc.username, tc.password); got != tc.want {
			t.Fatalf("Verify(%q, %q) = %v, want %v", tc.username, tc.password, got, tc.want)
		}
	}
}

func TestSHA256HasherMatchesStoredDigest(t *testing.T) {
	hasher, _ := NewPasswordHasher("")

	digest, err := hasher.Hash("student123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if digest != student123Digest {
		t.Fatalf("unexpected digest: %s", digest)
	}

	upper := "703B0A3D6AD75B649A28ADDE7D83C6251DA457549263BC7FF45EC709B0A8448B"
	if !hasher.Check("student123", upper) {
		t.Fatalf("hex digests should compare case-insensitively")
	}
}

func TestBcryptHasher(t *testing.T) {
	hasher, err := NewPasswordHasher("bcrypt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hash, err := hasher.Hash("s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasher.Check("s3cret", hash) {
		t.Fatalf("expected password to match its hash")
	}
	if hasher.Check("other", hash) {
		t.Fatalf("expected wrong password to be rejected")
	}
}

func TestNewPasswordHasherRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := NewPasswordHasher("md5"); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}

func TestRepositoryCredentialStore(t *testing.T) {
	repo := &fakeUserRepository{}
	ctx := context.Background()

	if err := SeedUsers(ctx, repo, map[string]string{"student": student123Digest}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hasher, _ := NewPasswordHasher("sha256")
	verifier := NewCredentialVerifier(NewRepositoryCredentialStore(repo), hasher, zap.NewNop())

	if !verifier.Verify(ctx, "student", "student123") {
		t.Fatalf("expected seeded user to verify")
	}
	if verifier.Verify(ctx, "recruiter", "recruiter123") {
		t.Fatalf("unknown user must not verify")
	}

	repo.err = errors.New("connection refused")
	if verifier.Verify(ctx, "student", "student123") {
		t.Fatalf("lookup failures must not verify")
	}
}
