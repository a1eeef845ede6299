package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

var errBackend = errors.New("backend said no")

// fixedNow is the clock used by every session test.
var fixedNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validToken(t *testing.T, userID string) string {
	t.Helper()
	return signToken(t, jwt.MapClaims{
		"user_id": userID,
		"exp":     fixedNow.Add(24 * time.Hour).Unix(),
	})
}

type stubAuthAPI struct {
	signupFn func(ctx context.Context, creds ports.Credentials) error
	loginFn  func(ctx context.Context, creds ports.Credentials) (string, error)
	meFn     func(ctx context.Context) (*domain.Identity, error)

	mu      sync.Mutex
	meCalls int
}

func (s *stubAuthAPI) Signup(ctx context.Context, creds ports.Credentials) error {
	if s.signupFn == nil {
		return nil
	}
	return s.signupFn(ctx, creds)
}

func (s *stubAuthAPI) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	if s.loginFn == nil {
		return "", errBackend
	}
	return s.loginFn(ctx, creds)
}

func (s *stubAuthAPI) Me(ctx context.Context) (*domain.Identity, error) {
	s.mu.Lock()
	s.meCalls++
	s.mu.Unlock()
	if s.meFn == nil {
		return nil, errBackend
	}
	return s.meFn(ctx)
}

func (s *stubAuthAPI) MeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meCalls
}

type stubTokenStore struct {
	mu     sync.Mutex
	token  string
	getErr error
	setErr error
}

func (s *stubTokenStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.token, nil
}

func (s *stubTokenStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.token = token
	return nil
}

func (s *stubTokenStore) Delete(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *stubTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

type stubWebsiteAPI struct {
	listFn     func(ctx context.Context) ([]domain.Website, error)
	getFn      func(ctx context.Context, id string) (*domain.Website, error)
	generateFn func(ctx context.Context, in ports.GenerateInput) (*domain.Website, error)
	updateFn   func(ctx context.Context, id string, content domain.SiteContent) (*domain.Website, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (s *stubWebsiteAPI) List(ctx context.Context) ([]domain.Website, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s *stubWebsiteAPI) Get(ctx context.Context, id string) (*domain.Website, error) {
	return s.getFn(ctx, id)
}

func (s *stubWebsiteAPI) Generate(ctx context.Context, in ports.GenerateInput) (*domain.Website, error) {
	return s.generateFn(ctx, in)
}

func (s *stubWebsiteAPI) Update(ctx context.Context, id string, content domain.SiteContent) (*domain.Website, error) {
	return s.updateFn(ctx, id, content)
}

func (s *stubWebsiteAPI) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

// stubAdminAPI keeps users in memory so role changes show up on re-fetch.
type stubAdminAPI struct {
	mu        sync.Mutex
	users     []domain.ManagedUser
	roles     []domain.RoleRecord
	assignErr error
	listErr   error
	assigned  []string
}

func (s *stubAdminAPI) ListUsers(context.Context) ([]domain.ManagedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.ManagedUser, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *stubAdminAPI) ListRoles(context.Context) ([]domain.RoleRecord, error) {
	return s.roles, nil
}

func (s *stubAdminAPI) AssignRole(_ context.Context, userID, roleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignErr != nil {
		return s.assignErr
	}
	s.assigned = append(s.assigned, userID+"="+roleName)
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].RoleName = roleName
		}
	}
	return nil
}
