package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/keithshino/one-on-one-supporter/internal/identity"
	"github.com/keithshino/one-on-one-supporter/internal/repository"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrDomainNotAllowed = errors.New("email domain is not allowed")
	// ErrNotProvisioned means the identity authenticated fine but no member
	// record matches it yet. Callers show the registration-pending screen.
	ErrNotProvisioned = errors.New("no member record matches this identity")
)

// AuthService maps external identity assertions onto member records. The
// actual authentication happens at the external provider; all this service
// sees is a verified email plus optional display name and avatar.
type AuthService struct {
	memberRepo    repository.MemberRepository
	allowedDomain string
}

// NewAuthService creates a new AuthService. allowedDomain may be empty to
// disable the corporate-domain check.
func NewAuthService(memberRepo repository.MemberRepository, allowedDomain string) *AuthService {
	return &AuthService{
		memberRepo:    memberRepo,
		allowedDomain: allowedDomain,
	}
}

// LoginInput is the external identity assertion.
type LoginInput struct {
	Email  string
	Name   string
	Avatar string
}

// Login validates the asserted identity against the domain allow-list and
// resolves it to a member. An unresolved session with a nil error means the
// identity is genuine but not provisioned; the session is still established
// so the user can see the explanatory screen and log out.
func (s *AuthService) Login(input LoginInput) (identity.Session, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return identity.Session{}, ErrEmailRequired
	}

	if s.allowedDomain != "" && !strings.HasSuffix(email, "@"+s.allowedDomain) {
		return identity.Session{}, ErrDomainNotAllowed
	}

	return s.ResolveSession(email)
}

// ResolveSession loads the member collection and builds the identity session
// for the given email. Role flags are recomputed from the full collection on
// every resolution; manager-ness is structural, never stored.
func (s *AuthService) ResolveSession(email string) (identity.Session, error) {
	members, err := s.memberRepo.List()
	if err != nil {
		// A failed read is "loading/unavailable", which must never be
		// conflated with "no match".
		return identity.Session{}, fmt.Errorf("failed to load members: %w", err)
	}

	return identity.NewSession(email, members), nil
}
