package handlers

import (
	"errors"
	"strconv"

	"github.com/AmonKats-dev/action-log-app/internal/api/rest/middleware"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/AmonKats-dev/action-log-app/internal/helper/utils"
	"github.com/AmonKats-dev/action-log-app/internal/services"
	pkgutils "github.com/AmonKats-dev/action-log-app/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type ActionLogHandler struct {
	svc         services.ActionLogService
	comments    services.CommentService
	attachments services.AttachmentService
}

func NewActionLogHandler(
	svc services.ActionLogService,
	comments services.CommentService,
	attachments services.AttachmentService,
) *ActionLogHandler {
	return &ActionLogHandler{
		svc:         svc,
		comments:    comments,
		attachments: attachments,
	}
}

func (h *ActionLogHandler) SetupRoutes(app *fiber.App, auth fiber.Handler) {
	logs := app.Group("/api/action-logs", auth)

	logs.Get("/", h.List)
	logs.Post("/", h.Create)
	logs.Get("/:id", h.Get)
	logs.Put("/:id", h.Replace)
	logs.Patch("/:id", h.Patch)
	logs.Delete("/:id", h.Delete)

	// decisions
	logs.Post("/:id/approve", h.Approve)
	logs.Post("/:id/reject", h.Reject)

	// comments
	logs.Get("/:id/comments", h.ListComments)
	logs.Post("/:id/comments", h.AddComment)
	logs.Post("/:id/comments/mark-viewed", h.MarkCommentsViewed)

	logs.Get("/:id/assignment_history", h.AssignmentHistory)
	logs.Get("/:id/audit_logs", h.AuditLogs)

	// attachments
	logs.Get("/:id/attachments", h.ListAttachments)
	logs.Post("/:id/attachments", h.UploadAttachment)
}

func (h *ActionLogHandler) List(ctx *fiber.Ctx) error {
	q := dto.ActionLogQuery{
		Status:   ctx.Query("status"),
		Priority: ctx.Query("priority"),
		Limit:    ctx.QueryInt("limit", 0),
		Offset:   ctx.QueryInt("offset", 0),
	}
	if raw := ctx.Query("department_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest(ctx, "department_id", "A valid integer is required.")
		}
		id := uint(v)
		q.DepartmentID = &id
	}

	logs, err := h.svc.List(ctx.UserContext(), middleware.CurrentUser(ctx), q)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, logs)
}

func (h *ActionLogHandler) Get(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	res, err := h.svc.Get(ctx.UserContext(), middleware.CurrentUser(ctx), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, res)
}

func (h *ActionLogHandler) Create(ctx *fiber.Ctx) error {
	var requestBody dto.CreateActionLogRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	res, err := h.svc.Create(ctx.UserContext(), middleware.CurrentUser(ctx), requestBody)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, res)
}

func (h *ActionLogHandler) Replace(ctx *fiber.Ctx) error {
	return h.update(ctx, false)
}

func (h *ActionLogHandler) Patch(ctx *fiber.Ctx) error {
	return h.update(ctx, true)
}

func (h *ActionLogHandler) update(ctx *fiber.Ctx, partial bool) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var requestBody dto.UpdateActionLogRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	res, err := h.svc.Update(ctx.UserContext(), middleware.CurrentUser(ctx), id, requestBody, partial)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, res)
}

func (h *ActionLogHandler) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	if err := h.svc.Delete(ctx.UserContext(), middleware.CurrentUser(ctx), id); err != nil {
		return respondError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (h *ActionLogHandler) Approve(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	res, err := h.svc.Approve(ctx.UserContext(), middleware.CurrentUser(ctx), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, res)
}

func (h *ActionLogHandler) Reject(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	// the body is optional
	var requestBody dto.RejectActionLogRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&requestBody); err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
		}
	}

	res, err := h.svc.Reject(ctx.UserContext(), middleware.CurrentUser(ctx), id, requestBody)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, res)
}

func (h *ActionLogHandler) ListComments(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	comments, err := h.comments.List(ctx.UserContext(), middleware.CurrentUser(ctx), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, comments)
}

func (h *ActionLogHandler) AddComment(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var requestBody dto.CreateCommentRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	comment, err := h.comments.Add(ctx.UserContext(), middleware.CurrentUser(ctx), id, requestBody)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, comment)
}

func (h *ActionLogHandler) MarkCommentsViewed(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	n, err := h.comments.MarkViewed(ctx.UserContext(), middleware.CurrentUser(ctx), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"marked": n})
}

func (h *ActionLogHandler) AssignmentHistory(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	items, err := h.svc.AssignmentHistory(ctx.UserContext(), middleware.CurrentUser(ctx), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, items)
}

func (h *ActionLogHandler) AuditLogs(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	items, err := h.svc.AuditLogs(ctx.UserContext(), middleware.CurrentUser(ctx), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, items)
}

func (h *ActionLogHandler) ListAttachments(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	items, err := h.attachments.List(ctx.UserContext(), middleware.CurrentUser(ctx), id)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, items)
}

// POST /api/action-logs/:id/attachments
// form-data: file=<any>
func (h *ActionLogHandler) UploadAttachment(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return badRequest(ctx, "file", "No file was submitted.")
	}
	if file.Size > services.MaxAttachmentSize {
		return badRequest(ctx, "file", "File size cannot exceed 10MB.")
	}

	f, err := file.Open()
	if err != nil {
		return respondError(ctx, err)
	}
	defer f.Close()

	data, err := pkgutils.ReadAllLimit(f, services.MaxAttachmentSize)
	if err != nil {
		if errors.Is(err, pkgutils.ErrTooLarge) {
			return badRequest(ctx, "file", "File size cannot exceed 10MB.")
		}
		return respondError(ctx, err)
	}

	res, err := h.attachments.Upload(ctx.UserContext(), middleware.CurrentUser(ctx), id, services.AttachmentUpload{
		Filename: file.Filename,
		MimeType: file.Header.Get(fiber.HeaderContentType),
		Data:     data,
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, res)
}
