package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/AmonKats-dev/action-log-app/internal/interfaces"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// MaxAttachmentSize caps a single upload at 10MB.
const MaxAttachmentSize = 10 * 1024 * 1024

type AttachmentUpload struct {
	Filename string
	MimeType string
	Data     []byte
}

type AttachmentService interface {
	List(ctx context.Context, requester *domain.User, actionLogID uint) ([]dto.AttachmentResponse, error)
	Upload(ctx context.Context, requester *domain.User, actionLogID uint, file AttachmentUpload) (*dto.AttachmentResponse, error)
}

type attachmentService struct {
	logRepo  repository.ActionLogRepository
	repo     repository.AttachmentRepository
	uploader interfaces.Uploader
}

// NewAttachmentService accepts a nil uploader; uploads then fail as unavailable.
func NewAttachmentService(
	logRepo repository.ActionLogRepository,
	repo repository.AttachmentRepository,
	uploader interfaces.Uploader,
) AttachmentService {
	return &attachmentService{
		logRepo:  logRepo,
		repo:     repo,
		uploader: uploader,
	}
}

func (s *attachmentService) List(ctx context.Context, requester *domain.User, actionLogID uint) ([]dto.AttachmentResponse, error) {
	l, err := findVisible(ctx, s.logRepo, requester, actionLogID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByActionLog(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AttachmentResponse, 0, len(items))
	for i := range items {
		out = append(out, toAttachmentResponse(&items[i]))
	}
	return out, nil
}

func (s *attachmentService) Upload(ctx context.Context, requester *domain.User, actionLogID uint, file AttachmentUpload) (*dto.AttachmentResponse, error) {
	l, err := findVisible(ctx, s.logRepo, requester, actionLogID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, goerr.Wrap(domain.ErrUnavailable, "attachment uploads are not configured")
	}

	name := filepath.Base(strings.TrimSpace(file.Filename))
	switch {
	case name == "" || name == "." || name == string(filepath.Separator):
		return nil, domain.NewValidationError("file", "No file was submitted.")
	case len(file.Data) == 0:
		return nil, domain.NewValidationError("file", "The submitted file is empty.")
	case len(file.Data) > MaxAttachmentSize:
		return nil, domain.NewValidationError("file", "File size cannot exceed 10MB.")
	}

	folder := fmt.Sprintf("action-logs/%d", l.ID)
	publicID := uuid.NewString() + "-" + strings.TrimSuffix(name, filepath.Ext(name))
	url, err := s.uploader.UploadBytes(ctx, folder, publicID, file.Data)
	if err != nil {
		return nil, err
	}

	att := &domain.ActionLogAttachment{
		ActionLogID:  l.ID,
		Filename:     name,
		FileURL:      url,
		FileSize:     int64(len(file.Data)),
		UploadedByID: requester.ID,
	}
	if file.MimeType != "" {
		mime := file.MimeType
		att.MimeType = &mime
	}

	audit := newAudit(requester, domain.AuditActionAttachment, map[string]any{
		"filename": name,
		"size":     att.FileSize,
	})
	if err := s.repo.Create(ctx, att, audit); err != nil {
		return nil, err
	}
	att.UploadedBy = requester

	res := toAttachmentResponse(att)
	return &res, nil
}
