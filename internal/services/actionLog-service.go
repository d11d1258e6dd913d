package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/AmonKats-dev/action-log-app/internal/helper"
	"github.com/AmonKats-dev/action-log-app/internal/interfaces"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/m-mizutani/goerr/v2"
)

type ActionLogService interface {
	List(ctx context.Context, requester *domain.User, q dto.ActionLogQuery) ([]dto.ActionLogResponse, error)
	Get(ctx context.Context, requester *domain.User, id uint) (*dto.ActionLogResponse, error)
	Create(ctx context.Context, requester *domain.User, input dto.CreateActionLogRequest) (*dto.ActionLogResponse, error)
	// Update applies PUT (partial=false) and PATCH (partial=true) payloads.
	Update(ctx context.Context, requester *domain.User, id uint, input dto.UpdateActionLogRequest, partial bool) (*dto.ActionLogResponse, error)
	Delete(ctx context.Context, requester *domain.User, id uint) error

	Approve(ctx context.Context, requester *domain.User, id uint) (*dto.ActionLogResponse, error)
	Reject(ctx context.Context, requester *domain.User, id uint, input dto.RejectActionLogRequest) (*dto.ActionLogResponse, error)

	AssignmentHistory(ctx context.Context, requester *domain.User, id uint) ([]dto.AssignmentHistoryResponse, error)
	AuditLogs(ctx context.Context, requester *domain.User, id uint) ([]dto.AuditLogResponse, error)
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, used for due-date checks and decision times.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type actionLogService struct {
	repo        repository.ActionLogRepository
	userRepo    repository.UserRepository
	deptRepo    repository.DepartmentRepository
	historyRepo repository.AssignmentHistoryRepository
	auditRepo   repository.AuditRepository

	events eventPublisher
	now    func() time.Time
}

func NewActionLogService(
	repo repository.ActionLogRepository,
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	historyRepo repository.AssignmentHistoryRepository,
	auditRepo repository.AuditRepository,
	producer interfaces.ProducerHandler,
	opts ...Option,
) ActionLogService {
	o := buildOptions(opts)
	return &actionLogService{
		repo:        repo,
		userRepo:    userRepo,
		deptRepo:    deptRepo,
		historyRepo: historyRepo,
		auditRepo:   auditRepo,
		events:      eventPublisher{producer: producer, now: o.now},
		now:         o.now,
	}
}

// ScopeFor returns the visibility scope of a requester: commissioners and
// super admins see every department, everyone else only their own.
func ScopeFor(user *domain.User) repository.Scope {
	if domain.IsElevated(user) {
		return repository.Scope{All: true}
	}
	if user == nil || user.DepartmentID == nil {
		return repository.Scope{}
	}
	return repository.Scope{DepartmentID: *user.DepartmentID}
}

func requireUser(user *domain.User) error {
	if user == nil {
		return goerr.Wrap(domain.ErrUnauthenticated, "requester is missing")
	}
	return nil
}

// findVisible loads a log the requester may see; anything else is not found.
func findVisible(ctx context.Context, repo repository.ActionLogRepository, requester *domain.User, id uint) (*domain.ActionLog, error) {
	if err := requireUser(requester); err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, id, ScopeFor(requester))
}

func (s *actionLogService) respond(ctx context.Context, requester *domain.User, id uint) (*dto.ActionLogResponse, error) {
	l, err := s.repo.FindByID(ctx, id, repository.Scope{All: true})
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountComments(ctx, []uint{l.ID})
	if err != nil {
		return nil, err
	}
	res := toActionLogResponse(l, requester, counts[l.ID])
	return &res, nil
}

func (s *actionLogService) List(ctx context.Context, requester *domain.User, q dto.ActionLogQuery) ([]dto.ActionLogResponse, error) {
	if err := requireUser(requester); err != nil {
		return nil, err
	}

	logs, err := s.repo.List(ctx, ScopeFor(requester), repository.ActionLogFilter{
		Status:       q.Status,
		Priority:     q.Priority,
		DepartmentID: q.DepartmentID,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.ID)
	}
	counts, err := s.repo.CountComments(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ActionLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, toActionLogResponse(&logs[i], requester, counts[logs[i].ID]))
	}
	return out, nil
}

func (s *actionLogService) Get(ctx context.Context, requester *domain.User, id uint) (*dto.ActionLogResponse, error) {
	l, err := findVisible(ctx, s.repo, requester, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountComments(ctx, []uint{l.ID})
	if err != nil {
		return nil, err
	}
	res := toActionLogResponse(l, requester, counts[l.ID])
	return &res, nil
}

func (s *actionLogService) resolveDepartment(ctx context.Context, v *domain.ValidationError, id uint) (*domain.Department, error) {
	dept, err := s.deptRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			v.Add("department_id", departmentMissing(id))
			return nil, nil
		}
		return nil, err
	}
	return dept, nil
}

func (s *actionLogService) resolveAssignees(ctx context.Context, v *domain.ValidationError, ids []uint) ([]domain.User, error) {
	ids = helper.UniqueIDs(ids)
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uint]bool, len(users))
	for _, u := range users {
		found[u.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			v.Add("assigned_to", userMissing(id))
		}
	}
	return users, nil
}

func (s *actionLogService) Create(ctx context.Context, requester *domain.User, input dto.CreateActionLogRequest) (*dto.ActionLogResponse, error) {
	if err := requireUser(requester); err != nil {
		return nil, err
	}
	if !domain.CanCreateActionLogs(requester) {
		return nil, goerr.Wrap(domain.ErrPermissionDenied, "user cannot create action logs",
			goerr.V("user_id", requester.ID))
	}

	now := s.now()
	v := &domain.ValidationError{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		v.Add("title", msgRequired)
	} else {
		title = checkText(v, "title", title, maxTitleLength)
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		v.Add("description", msgRequired)
	}

	var dept *domain.Department
	if input.DepartmentID == nil {
		v.Add("department_id", msgRequired)
	} else {
		d, err := s.resolveDepartment(ctx, v, *input.DepartmentID)
		if err != nil {
			return nil, err
		}
		dept = d
	}

	var assignees []domain.User
	if input.AssignedTo == nil {
		v.Add("assigned_to", msgRequired)
	} else {
		users, err := s.resolveAssignees(ctx, v, *input.AssignedTo)
		if err != nil {
			return nil, err
		}
		assignees = users
	}

	status := domain.ActionLogStatusOpen
	if input.Status != "" {
		status = domain.ActionLogStatus(input.Status)
		if !status.IsAssignable() {
			v.Add("status", invalidChoice(input.Status))
		}
	}

	priority := domain.PriorityMedium
	if input.Priority != "" {
		priority = domain.Priority(input.Priority)
		if !priority.IsValid() {
			v.Add("priority", invalidChoice(input.Priority))
		}
	}

	checkDueDate(v, input.DueDate, now)

	if v.HasErrors() {
		return nil, v
	}

	l := &domain.ActionLog{
		Title:        title,
		Description:  description,
		DepartmentID: dept.ID,
		CreatedByID:  requester.ID,
		Status:       status,
		Priority:     priority,
		DueDate:      input.DueDate,
		AssignedTo:   assignees,
	}
	audit := newAudit(requester, domain.AuditActionCreated, map[string]any{
		"title":       title,
		"assigned_to": l.AssigneeIDs(),
	})
	if err := s.repo.Create(ctx, l, audit); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("action log created", "action_log_id", l.ID, "assignees", len(assignees))
	if len(assignees) > 0 {
		s.events.publish(ctx, dto.EventActionLogAssigned, l, requester,
			"You have been assigned to action log: "+l.Title, nil)
	}

	return s.respond(ctx, requester, l.ID)
}

func (s *actionLogService) Update(ctx context.Context, requester *domain.User, id uint, input dto.UpdateActionLogRequest, partial bool) (*dto.ActionLogResponse, error) {
	l, err := findVisible(ctx, s.repo, requester, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	v := &domain.ValidationError{}
	fields := map[string]any{}

	if !partial {
		if input.Title == nil {
			v.Add("title", msgRequired)
		}
		if input.Description == nil {
			v.Add("description", msgRequired)
		}
		if input.DepartmentID == nil {
			v.Add("department_id", msgRequired)
		}
		if input.AssignedTo == nil {
			v.Add("assigned_to", msgRequired)
		}
	}

	if input.Title != nil {
		fields["title"] = checkText(v, "title", *input.Title, maxTitleLength)
	}
	if input.Description != nil {
		fields["description"] = checkText(v, "description", *input.Description, 0)
	}
	if input.DepartmentID != nil {
		dept, err := s.resolveDepartment(ctx, v, *input.DepartmentID)
		if err != nil {
			return nil, err
		}
		if dept != nil {
			fields["department_id"] = dept.ID
		}
	}

	statusChanged := false
	if input.Status != nil {
		status := domain.ActionLogStatus(*input.Status)
		switch {
		case !status.IsValid():
			v.Add("status", invalidChoice(*input.Status))
		case status == l.Status:
		case status.IsDecided():
			v.Add("status", "Use the approve or reject action to set this status.")
		default:
			if !domain.CanUpdateStatus(requester) {
				return nil, goerr.Wrap(domain.ErrPermissionDenied, "user cannot change status",
					goerr.V("user_id", requester.ID), goerr.V("action_log_id", l.ID))
			}
			if l.Status.IsDecided() {
				return nil, goerr.Wrap(domain.ErrAlreadyDecided, "cannot change status of a decided log",
					goerr.V("action_log_id", l.ID), goerr.V("status", l.Status))
			}
			fields["status"] = string(status)
			statusChanged = true
		}
	}

	if input.Priority != nil {
		p := domain.Priority(*input.Priority)
		if !p.IsValid() {
			v.Add("priority", invalidChoice(*input.Priority))
		} else {
			fields["priority"] = string(p)
		}
	}

	if input.DueDate.Set {
		checkDueDate(v, input.DueDate.Value, now)
		fields["due_date"] = input.DueDate.Value
	}

	var assignees []domain.User
	if input.AssignedTo != nil {
		users, err := s.resolveAssignees(ctx, v, *input.AssignedTo)
		if err != nil {
			return nil, err
		}
		assignees = users
	}

	if v.HasErrors() {
		return nil, v
	}

	var note string
	if input.Comment != nil {
		note = strings.TrimSpace(*input.Comment)
	}

	changed := make([]string, 0, len(fields))
	for k := range fields {
		changed = append(changed, k)
	}
	sort.Strings(changed)

	upd := repository.ActionLogUpdate{Fields: fields}
	details := map[string]any{"fields": changed}
	action := domain.AuditActionUpdated

	switch {
	case input.AssignedTo != nil:
		// assignment changes carry the comment on the history record
		history := &domain.ActionLogAssignmentHistory{
			AssignedByID: requester.ID,
			AssignedTo:   assignees,
		}
		if note != "" {
			history.Comment = &note
		}
		upd.Assignees = &assignees
		upd.History = history
		action = domain.AuditActionAssigned
		ids := make([]uint, 0, len(assignees))
		for _, u := range assignees {
			ids = append(ids, u.ID)
		}
		details["assigned_to"] = ids
	case note != "":
		upd.Comment = &domain.ActionLogComment{
			UserID:  requester.ID,
			Comment: note,
		}
		details["comment"] = true
	}
	upd.Audit = newAudit(requester, action, details)

	if err := s.repo.ApplyUpdate(ctx, l, upd); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, l.ID, repository.Scope{All: true})
	if err != nil {
		return nil, err
	}

	if upd.History != nil && len(assignees) > 0 {
		s.events.publish(ctx, dto.EventActionLogAssigned, updated, requester,
			"You have been assigned to action log: "+updated.Title, nil)
	}
	if upd.Comment != nil {
		s.events.publish(ctx, dto.EventActionLogCommented, updated, requester,
			"New comment on action log: "+updated.Title, &upd.Comment.ID)
	}
	if statusChanged {
		s.events.publish(ctx, dto.EventActionLogStatusChanged, updated, requester,
			"Status of action log "+updated.Title+" changed to "+string(updated.Status), nil)
	}

	counts, err := s.repo.CountComments(ctx, []uint{updated.ID})
	if err != nil {
		return nil, err
	}
	res := toActionLogResponse(updated, requester, counts[updated.ID])
	return &res, nil
}

func (s *actionLogService) Delete(ctx context.Context, requester *domain.User, id uint) error {
	l, err := findVisible(ctx, s.repo, requester, id)
	if err != nil {
		return err
	}
	if !domain.CanDeleteActionLog(requester, l) {
		return goerr.Wrap(domain.ErrPermissionDenied, "user cannot delete this log",
			goerr.V("user_id", requester.ID), goerr.V("action_log_id", l.ID))
	}

	audit := newAudit(requester, domain.AuditActionDeleted, map[string]any{"title": l.Title})
	if err := s.repo.Delete(ctx, l, audit); err != nil {
		return err
	}
	logging.From(ctx).Info("action log deleted", "action_log_id", l.ID)
	return nil
}

func (s *actionLogService) Approve(ctx context.Context, requester *domain.User, id uint) (*dto.ActionLogResponse, error) {
	l, err := findVisible(ctx, s.repo, requester, id)
	if err != nil {
		return nil, err
	}

	if err := l.Approve(requester, s.now()); err != nil {
		return nil, err
	}
	audit := newAudit(requester, domain.AuditActionApproved, nil)
	if err := s.repo.Decide(ctx, l, audit); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("action log approved", "action_log_id", l.ID)
	s.events.publish(ctx, dto.EventActionLogApproved, l, requester,
		"Action log approved: "+l.Title, nil)

	return s.respond(ctx, requester, l.ID)
}

func (s *actionLogService) Reject(ctx context.Context, requester *domain.User, id uint, input dto.RejectActionLogRequest) (*dto.ActionLogResponse, error) {
	l, err := findVisible(ctx, s.repo, requester, id)
	if err != nil {
		return nil, err
	}

	if err := NewApprovalDecisionValidator(requester, l).Validate(input); err != nil {
		return nil, err
	}
	if err := l.Reject(requester, input.RejectionReason, s.now()); err != nil {
		return nil, err
	}
	audit := newAudit(requester, domain.AuditActionRejected, map[string]any{
		"rejection_reason": input.RejectionReason,
	})
	if err := s.repo.Decide(ctx, l, audit); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("action log rejected", "action_log_id", l.ID)
	s.events.publish(ctx, dto.EventActionLogRejected, l, requester,
		"Action log rejected: "+l.Title, nil)

	return s.respond(ctx, requester, l.ID)
}

func (s *actionLogService) AssignmentHistory(ctx context.Context, requester *domain.User, id uint) ([]dto.AssignmentHistoryResponse, error) {
	l, err := findVisible(ctx, s.repo, requester, id)
	if err != nil {
		return nil, err
	}

	items, err := s.historyRepo.ListByActionLog(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentHistoryResponse, 0, len(items))
	for i := range items {
		out = append(out, toHistoryResponse(&items[i]))
	}
	return out, nil
}

func (s *actionLogService) AuditLogs(ctx context.Context, requester *domain.User, id uint) ([]dto.AuditLogResponse, error) {
	l, err := findVisible(ctx, s.repo, requester, id)
	if err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.ListByEntity(ctx, domain.AuditEntityActionLog, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditLogResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toAuditLogResponse(&entries[i]))
	}
	return out, nil
}
