package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AmonKats-dev/action-log-app/internal/api/rest/middleware"
	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/helper"
	"github.com/AmonKats-dev/action-log-app/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/m-mizutani/gt"
)

func TestAuthMiddlewareStoresRequester(t *testing.T) {
	f := testutil.NewFixture(t)
	auth := helper.SetupAuth("test-secret")
	dept := f.Department(t, "Macro")
	user := f.User(t, domain.RoleCommissioner, dept)
	disabled := f.User(t, domain.RoleEconomist, dept, testutil.Inactive())

	app := fiber.New()
	app.Get("/me", middleware.AuthMiddleware(auth, f.Users), func(ctx *fiber.Ctx) error {
		u := middleware.CurrentUser(ctx)
		if u == nil {
			return ctx.SendStatus(fiber.StatusTeapot)
		}
		return ctx.JSON(fiber.Map{"id": u.ID, "role": u.RoleName()})
	})

	call := func(t *testing.T, u *domain.User) *http.Response {
		t.Helper()
		tok, err := auth.GenerateToken(int(u.ID), u.Email)
		gt.NoError(t, err).Required()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		resp, err := app.Test(req, -1)
		gt.NoError(t, err).Required()
		return resp
	}

	t.Run("active user reaches the handler", func(t *testing.T) {
		resp := call(t, user)
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)

		var body struct {
			ID   uint   `json:"id"`
			Role string `json:"role"`
		}
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(&body)).Required()
		gt.Value(t, body.ID).Equal(user.ID)
		gt.Value(t, body.Role).Equal(domain.RoleCommissioner)
	})

	t.Run("disabled user is rejected", func(t *testing.T) {
		resp := call(t, disabled)
		gt.Value(t, resp.StatusCode).Equal(http.StatusUnauthorized)
	})

	t.Run("no requester outside the middleware", func(t *testing.T) {
		bare := fiber.New()
		bare.Get("/me", func(ctx *fiber.Ctx) error {
			gt.Bool(t, middleware.CurrentUser(ctx) == nil).True()
			return ctx.SendStatus(fiber.StatusNoContent)
		})
		resp, err := bare.Test(httptest.NewRequest(http.MethodGet, "/me", nil), -1)
		gt.NoError(t, err).Required()
		gt.Value(t, resp.StatusCode).Equal(http.StatusNoContent)
	})
}
