package handlers

import (
	"github.com/AmonKats-dev/action-log-app/internal/api/rest/middleware"
	"github.com/AmonKats-dev/action-log-app/internal/helper/utils"
	"github.com/AmonKats-dev/action-log-app/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	svc services.NotificationService
}

func NewNotificationHandler(svc services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) SetupRoutes(app *fiber.App, auth fiber.Handler) {
	n := app.Group("/api/notifications", auth)
	n.Get("/", h.List)
	n.Post("/:id/read", h.MarkRead)
}

// GET /api/notifications?unread=true&limit=20&offset=0
func (h *NotificationHandler) List(ctx *fiber.Ctx) error {
	items, err := h.svc.List(
		ctx.UserContext(),
		middleware.CurrentUser(ctx),
		ctx.QueryBool("unread", false),
		ctx.QueryInt("limit", 50),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, items)
}

func (h *NotificationHandler) MarkRead(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	if err := h.svc.MarkRead(ctx.UserContext(), middleware.CurrentUser(ctx), id); err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Notification marked as read")
}
