package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorshop/internal/domain"
)

// stubAuth resolves a fixed token to a fixed user; everything else is inert.
type stubAuth struct {
	token string
	user  *domain.User
}

func (s *stubAuth) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, string, error) {
	return nil, "", nil
}

func (s *stubAuth) Login(ctx context.Context, input domain.LoginInput) (*domain.User, string, error) {
	return nil, "", nil
}

func (s *stubAuth) ResolvePrincipal(ctx context.Context, tokenString string) (*domain.User, error) {
	if tokenString == s.token {
		return s.user, nil
	}
	return nil, nil
}

func (s *stubAuth) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}

func newTestApp(authSvc *stubAuth) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(Authenticate(authSvc))

	app.Get("/open", func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(user.Email)
	})
	app.Get("/protected", RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/admin", RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	buf := make([]byte, 256)
	n, _ := resp.Body.Read(buf)
	return string(buf[:n])
}

func TestAuthenticate_NoTokenPassesThrough(t *testing.T) {
	app := newTestApp(&stubAuth{token: "good", user: &domain.User{ID: 4, Email: "jane@example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "anonymous", body(t, resp))
}

func TestAuthenticate_BearerHeaderBindsPrincipal(t *testing.T) {
	app := newTestApp(&stubAuth{token: "good", user: &domain.User{ID: 4, Email: "jane@example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", body(t, resp))
}

func TestAuthenticate_QueryTokenBindsPrincipal(t *testing.T) {
	app := newTestApp(&stubAuth{token: "good", user: &domain.User{ID: 4, Email: "jane@example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/open?token=good", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", body(t, resp))
}

func TestAuthenticate_CookieBindsPrincipal(t *testing.T) {
	app := newTestApp(&stubAuth{token: "good", user: &domain.User{ID: 4, Email: "jane@example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "good"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", body(t, resp))
}

func TestAuthenticate_HeaderTakesPrecedenceOverQuery(t *testing.T) {
	app := newTestApp(&stubAuth{token: "good", user: &domain.User{ID: 4, Email: "jane@example.com"}})

	// A malformed header wins the precedence race and does not fall through
	// to the valid query token.
	req := httptest.NewRequest(http.MethodGet, "/open?token=good", nil)
	req.Header.Set("Authorization", "NotBearer something")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "anonymous", body(t, resp))
}

func TestAuthenticate_BadTokenStaysAnonymous(t *testing.T) {
	app := newTestApp(&stubAuth{token: "good", user: &domain.User{ID: 4, Email: "jane@example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer forged")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "anonymous", body(t, resp))
}

func TestRequireAuthenticated(t *testing.T) {
	app := newTestApp(&stubAuth{token: "good", user: &domain.User{ID: 4, Email: "jane@example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	customer := &domain.User{ID: 4, Email: "jane@example.com", Role: domain.RoleCustomer}
	app := newTestApp(&stubAuth{token: "good", user: customer})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
