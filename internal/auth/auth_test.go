package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerdesk/backoffice/internal/domain"
	apperrors "github.com/ledgerdesk/backoffice/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	meta, token, err := tm.GenerateToken("ops", domain.OperatorRoleOperator)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !meta.ExpiresAt.After(meta.IssuedAt) {
		t.Fatalf("expiry not after issue time: %+v", meta)
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "ops" || claims.Role != domain.OperatorRoleOperator {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if _, err := NewTokenManager("other", time.Minute).ParseToken(token); err == nil {
		t.Fatalf("expected signature mismatch")
	}
}

func testApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	mw := NewAuthMiddleware(tm)
	app.Get("/read", mw.Handle, func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Post("/write", mw.Handle, RequireRole(Writers()...), func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestMiddlewareAndRoles(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	app := testApp(tm)
	_, viewer, _ := tm.GenerateToken("v", domain.OperatorRoleViewer)
	_, admin, _ := tm.GenerateToken("a", domain.OperatorRoleAdmin)

	cases := []struct {
		method string
		path   string
		token  string
		want   int
	}{
		{http.MethodGet, "/read", "", http.StatusUnauthorized},
		{http.MethodGet, "/read", "garbage", http.StatusUnauthorized},
		{http.MethodGet, "/read", viewer, http.StatusOK},
		{http.MethodPost, "/write", viewer, http.StatusForbidden},
		{http.MethodPost, "/write", admin, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if resp.StatusCode != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, resp.StatusCode)
		}
	}
}
