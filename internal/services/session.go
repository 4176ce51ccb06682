package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/models"
)

var (
	ErrRoleNotSelected    = errors.New("please select a role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
)

type SessionManager interface {
	Login(ctx context.Context, username, password, role string) (*models.Session, error)
	Logout(token string) error
	Get(token string) (*models.Session, error)
}

type sessionManager struct {
	verifier CredentialVerifier
	log      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewSessionManager(verifier CredentialVerifier, log *zap.Logger) SessionManager {
	return &sessionManager{
		verifier: verifier,
		log:      log,
		sessions: make(map[string]*models.Session),
	}
}

// Login implements SessionManager. The role is checked before credentials;
// a failed attempt leaves no session behind.
func (m *sessionManager) Login(ctx context.Context, username, password, role string) (*models.Session, error) {
	selected := models.ParseRole(role)
	if selected == models.RoleUnset {
		return nil, ErrRoleNotSelected
	}

	username = strings.ToLower(strings.TrimSpace(username))
	if !m.verifier.Verify(ctx, username, password) {
		m.log.Info("login rejected", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		Username:  username,
		Role:      selected,
		LoggedIn:  true,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[session.Token] = session
	m.mu.Unlock()

	m.log.Info("login succeeded", zap.String("username", username), zap.String("role", string(selected)))

	copied := *session
	return &copied, nil
}

// Logout implements SessionManager.
func (m *sessionManager) Logout(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}

	session.LoggedIn = false
	delete(m.sessions, token)

	m.log.Info("logout", zap.String("username", session.Username))
	return nil
}

// Get implements SessionManager.
func (m *sessionManager) Get(token string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[token]
	if !ok || !session.LoggedIn {
		return nil, ErrSessionNotFound
	}

	copied := *session
	return &copied, nil
}
