package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/csukav/Webshop/internal/auth"
	authrepo "github.com/csukav/Webshop/internal/auth/repository"
	"github.com/csukav/Webshop/internal/domain"
)

type profileRepoMock struct {
	profiles map[uuid.UUID]*domain.Profile
}

func (m *profileRepoMock) CreateProfile(ctx context.Context, p *domain.Profile) error {
	m.profiles[p.ID] = p
	return nil
}

func (m *profileRepoMock) GetProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	for _, p := range m.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, authrepo.ErrProfileNotFound
}

func (m *profileRepoMock) GetProfileByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, authrepo.ErrProfileNotFound
	}
	return p, nil
}

func setupAuthService(t *testing.T) (*auth.Service, *profileRepoMock) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &profileRepoMock{profiles: make(map[uuid.UUID]*domain.Profile)}
	return auth.NewService(repo, auth.NewSessionStore(client, time.Hour)), repo
}

func passThroughHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func withIdentity(r *http.Request, identity *auth.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, identity)
	return r.WithContext(ctx)
}

func TestEdgeGate_AnonymousAdminRouteRedirectsToLogin(t *testing.T) {
	called := false
	handler := EdgeGateMiddleware(passThroughHandler(&called))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/admin/orders", nil)

	handler.ServeHTTP(recorder, request)

	if called {
		t.Error("Expected handler not to be called")
	}
	if recorder.Code != http.StatusSeeOther {
		t.Errorf("Expected status code %d, got %d", http.StatusSeeOther, recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != auth.LoginPath {
		t.Errorf("Expected redirect to %s, got %s", auth.LoginPath, location)
	}
}

func TestEdgeGate_AnonymousShopRoutePasses(t *testing.T) {
	called := false
	handler := EdgeGateMiddleware(passThroughHandler(&called))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/products", nil)

	handler.ServeHTTP(recorder, request)

	if !called {
		t.Error("Expected handler to be called")
	}
}

func TestEdgeGate_AuthenticatedLoginRedirectsHome(t *testing.T) {
	called := false
	handler := EdgeGateMiddleware(passThroughHandler(&called))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/login", nil)
	request = withIdentity(request, &auth.Identity{UserID: uuid.New(), Email: "u@example.com"})

	handler.ServeHTTP(recorder, request)

	if called {
		t.Error("Expected handler not to be called")
	}
	if recorder.Code != http.StatusSeeOther {
		t.Errorf("Expected status code %d, got %d", http.StatusSeeOther, recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != auth.HomePath {
		t.Errorf("Expected redirect to %s, got %s", auth.HomePath, location)
	}
}

// The edge layer cannot see the role, so an authenticated request for an
// admin route passes through and is decided by the admin layer.
func TestEdgeGate_AuthenticatedAdminRouteDefersRole(t *testing.T) {
	called := false
	handler := EdgeGateMiddleware(passThroughHandler(&called))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/admin/orders", nil)
	request = withIdentity(request, &auth.Identity{UserID: uuid.New(), Email: "u@example.com"})

	handler.ServeHTTP(recorder, request)

	if !called {
		t.Error("Expected handler to be called")
	}
}

func TestAdminGate_AnonymousRedirectsToLogin(t *testing.T) {
	authService, _ := setupAuthService(t)
	called := false
	handler := AdminGateMiddleware(authService)(passThroughHandler(&called))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/admin/orders", nil)

	handler.ServeHTTP(recorder, request)

	if called {
		t.Error("Expected handler not to be called")
	}
	if location := recorder.Header().Get("Location"); location != auth.LoginPath {
		t.Errorf("Expected redirect to %s, got %s", auth.LoginPath, location)
	}
}

func TestAdminGate_NonAdminRedirectsHome(t *testing.T) {
	authService, repo := setupAuthService(t)

	profile, _, err := authService.SignUp(context.Background(), "shopper@example.com", "secret1", "Shopper")
	if err != nil {
		t.Fatalf("Failed to sign up: %v", err)
	}
	if repo.profiles[profile.ID].Role != domain.RoleUser {
		t.Fatalf("Expected new profile to have role user")
	}

	called := false
	handler := AdminGateMiddleware(authService)(passThroughHandler(&called))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/admin/orders", nil)
	request = withIdentity(request, &auth.Identity{UserID: profile.ID, Email: profile.Email})

	handler.ServeHTTP(recorder, request)

	if called {
		t.Error("Expected handler not to be called")
	}
	if recorder.Code != http.StatusSeeOther {
		t.Errorf("Expected status code %d, got %d", http.StatusSeeOther, recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != auth.HomePath {
		t.Errorf("Expected redirect to %s, got %s", auth.HomePath, location)
	}
}

func TestAdminGate_AdminPasses(t *testing.T) {
	authService, repo := setupAuthService(t)

	profile, _, err := authService.SignUp(context.Background(), "boss@example.com", "secret1", "Boss")
	if err != nil {
		t.Fatalf("Failed to sign up: %v", err)
	}
	repo.profiles[profile.ID].Role = domain.RoleAdmin

	called := false
	handler := AdminGateMiddleware(authService)(passThroughHandler(&called))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/admin/orders", nil)
	request = withIdentity(request, &auth.Identity{UserID: profile.ID, Email: profile.Email})

	handler.ServeHTTP(recorder, request)

	if !called {
		t.Error("Expected handler to be called")
	}
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
}

// The role is read fresh on every admin request, so a promotion applies to
// sessions that were opened before it happened.
func TestAdminGate_PromotionAppliesToExistingSession(t *testing.T) {
	authService, repo := setupAuthService(t)

	profile, _, err := authService.SignUp(context.Background(), "later@example.com", "secret1", "Later Admin")
	if err != nil {
		t.Fatalf("Failed to sign up: %v", err)
	}

	handler := AdminGateMiddleware(authService)(passThroughHandler(new(bool)))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/admin/orders", nil)
	request = withIdentity(request, &auth.Identity{UserID: profile.ID, Email: profile.Email})
	handler.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusSeeOther {
		t.Fatalf("Expected redirect before promotion, got %d", recorder.Code)
	}

	repo.profiles[profile.ID].Role = domain.RoleAdmin

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest("GET", "/api/v1/admin/orders", nil)
	request = withIdentity(request, &auth.Identity{UserID: profile.ID, Email: profile.Email})
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d after promotion, got %d", http.StatusOK, recorder.Code)
	}
}

func TestSessionMiddleware_ValidCookieResolvesIdentity(t *testing.T) {
	authService, _ := setupAuthService(t)

	profile, token, err := authService.SignUp(context.Background(), "cookie@example.com", "secret1", "Cookie")
	if err != nil {
		t.Fatalf("Failed to sign up: %v", err)
	}

	var seen *auth.Identity
	handler := SessionMiddleware(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = identityFromContext(r.Context())
	}))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/cart", nil)
	request.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})

	handler.ServeHTTP(recorder, request)

	if seen == nil {
		t.Fatal("Expected identity in context")
	}
	if seen.UserID != profile.ID {
		t.Errorf("Expected user ID %s, got %s", profile.ID, seen.UserID)
	}
}

func TestSessionMiddleware_UnknownTokenStaysAnonymous(t *testing.T) {
	authService, _ := setupAuthService(t)

	var seen *auth.Identity
	handler := SessionMiddleware(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = identityFromContext(r.Context())
	}))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/cart", nil)
	request.AddCookie(&http.Cookie{Name: sessionCookie, Value: "not-a-session"})

	handler.ServeHTTP(recorder, request)

	if seen != nil {
		t.Errorf("Expected anonymous request, got identity %v", seen)
	}
}

func TestSessionMiddleware_NoCookieStaysAnonymous(t *testing.T) {
	authService, _ := setupAuthService(t)

	var seen *auth.Identity
	handler := SessionMiddleware(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = identityFromContext(r.Context())
	}))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/products", nil)

	handler.ServeHTTP(recorder, request)

	if seen != nil {
		t.Errorf("Expected anonymous request, got identity %v", seen)
	}
}
