package services

import (
	"context"
	"errors"
	"strings"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/AmonKats-dev/action-log-app/internal/interfaces"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/m-mizutani/goerr/v2"
)

type CommentService interface {
	// List returns top-level comments with nested replies, newest first.
	List(ctx context.Context, requester *domain.User, actionLogID uint) ([]dto.CommentResponse, error)
	Add(ctx context.Context, requester *domain.User, actionLogID uint, input dto.CreateCommentRequest) (*dto.CommentResponse, error)
	MarkViewed(ctx context.Context, requester *domain.User, actionLogID uint) (int64, error)
}

type commentService struct {
	logRepo repository.ActionLogRepository
	repo    repository.CommentRepository
	events  eventPublisher
}

func NewCommentService(
	logRepo repository.ActionLogRepository,
	repo repository.CommentRepository,
	producer interfaces.ProducerHandler,
	opts ...Option,
) CommentService {
	o := buildOptions(opts)
	return &commentService{
		logRepo: logRepo,
		repo:    repo,
		events:  eventPublisher{producer: producer, now: o.now},
	}
}

func (s *commentService) List(ctx context.Context, requester *domain.User, actionLogID uint) ([]dto.CommentResponse, error) {
	l, err := findVisible(ctx, s.logRepo, requester, actionLogID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListByActionLog(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return buildCommentTree(comments, l), nil
}

func (s *commentService) Add(ctx context.Context, requester *domain.User, actionLogID uint, input dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	l, err := findVisible(ctx, s.logRepo, requester, actionLogID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(input.Comment)
	if text == "" {
		return nil, domain.NewValidationError("comment", "Comment is required")
	}

	if input.ParentCommentID != nil {
		if _, err := s.repo.FindInLog(ctx, l.ID, *input.ParentCommentID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, goerr.Wrap(domain.ErrNotFound, "parent comment not found",
					goerr.V("action_log_id", l.ID), goerr.V("parent_comment_id", *input.ParentCommentID))
			}
			return nil, err
		}
	}

	c := &domain.ActionLogComment{
		ActionLogID:     l.ID,
		UserID:          requester.ID,
		Comment:         text,
		ParentCommentID: input.ParentCommentID,
	}
	audit := newAudit(requester, domain.AuditActionCommented, map[string]any{
		"parent_comment_id": input.ParentCommentID,
	})
	if err := s.repo.Create(ctx, c, audit); err != nil {
		return nil, err
	}
	c.User = requester

	s.events.publish(ctx, dto.EventActionLogCommented, l, requester,
		"New comment on action log: "+l.Title, &c.ID)

	res := toCommentResponse(c, l)
	return &res, nil
}

func (s *commentService) MarkViewed(ctx context.Context, requester *domain.User, actionLogID uint) (int64, error) {
	l, err := findVisible(ctx, s.logRepo, requester, actionLogID)
	if err != nil {
		return 0, err
	}
	return s.repo.MarkViewed(ctx, l.ID)
}
