package services

import (
	"encoding/json"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
)

func toRoleResponse(r *domain.Role) *dto.RoleResponse {
	if r == nil {
		return nil
	}
	return &dto.RoleResponse{
		ID:              r.ID,
		Name:            r.Name,
		CanCreateLogs:   r.CanCreateLogs,
		CanUpdateStatus: r.CanUpdateStatus,
		CanApprove:      r.CanApprove,
		CanViewAllLogs:  r.CanViewAllLogs,
		CanConfigure:    r.CanConfigure,
	}
}

func toUnitResponse(u *domain.DepartmentUnit) dto.DepartmentUnitResponse {
	res := dto.DepartmentUnitResponse{
		ID:          u.ID,
		Name:        u.Name,
		UnitType:    u.UnitType,
		Description: u.Description,
		Department:  u.DepartmentID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.Department != nil {
		res.DepartmentName = u.Department.Name
	}
	return res
}

func toDepartmentResponse(d *domain.Department) dto.DepartmentResponse {
	if d == nil {
		return dto.DepartmentResponse{Units: []dto.DepartmentUnitResponse{}}
	}
	units := make([]dto.DepartmentUnitResponse, 0, len(d.Units))
	for i := range d.Units {
		units = append(units, toUnitResponse(&d.Units[i]))
	}
	return dto.DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		Units:       units,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toUserResponse(u *domain.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	res := &dto.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        toRoleResponse(u.Role),
		Department:  u.DepartmentID,
		EmployeeID:  u.EmployeeID,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		Designation: u.Designation,
	}
	if u.DepartmentUnit != nil {
		unit := toUnitResponse(u.DepartmentUnit)
		res.DepartmentUnit = &unit
	}
	return res
}

func toUserSummary(u *domain.User) dto.UserSummary {
	return dto.UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// toActionLogResponse computes can_approve for the requester; a nil
// requester never can.
func toActionLogResponse(l *domain.ActionLog, requester *domain.User, commentCount int64) dto.ActionLogResponse {
	return dto.ActionLogResponse{
		ID:              l.ID,
		Title:           l.Title,
		Description:     l.Description,
		Department:      toDepartmentResponse(l.Department),
		CreatedBy:       toUserResponse(l.CreatedBy),
		Status:          string(l.Status),
		Priority:        string(l.Priority),
		DueDate:         l.DueDate,
		AssignedTo:      l.AssigneeIDs(),
		ApprovedBy:      toUserResponse(l.ApprovedBy),
		ApprovedAt:      l.ApprovedAt,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		CanApprove:      requester != nil && l.CanApprove(requester),
		CommentCount:    commentCount,
	}
}

// buildCommentTree nests replies under their parents. comments must all
// belong to l and arrive in display order (newest first).
func buildCommentTree(comments []domain.ActionLogComment, l *domain.ActionLog) []dto.CommentResponse {
	children := make(map[uint][]*domain.ActionLogComment)
	var roots []*domain.ActionLogComment
	for i := range comments {
		c := &comments[i]
		if c.IsTopLevel() {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentCommentID] = append(children[*c.ParentCommentID], c)
	}

	visited := make(map[uint]bool, len(comments))
	out := make([]dto.CommentResponse, 0, len(roots))
	for _, c := range roots {
		if node, ok := formatComment(c, children, l, visited); ok {
			out = append(out, node)
		}
	}
	return out
}

// formatComment skips nodes it cannot render (missing author, or a parent
// cycle) instead of failing the whole thread.
func formatComment(c *domain.ActionLogComment, children map[uint][]*domain.ActionLogComment, l *domain.ActionLog, visited map[uint]bool) (dto.CommentResponse, bool) {
	if c.User == nil || visited[c.ID] {
		return dto.CommentResponse{}, false
	}
	visited[c.ID] = true

	node := toCommentResponse(c, l)
	for _, child := range children[c.ID] {
		if reply, ok := formatComment(child, children, l, visited); ok {
			node.Replies = append(node.Replies, reply)
		}
	}
	return node, true
}

func toCommentResponse(c *domain.ActionLogComment, l *domain.ActionLog) dto.CommentResponse {
	var user dto.UserSummary
	if c.User != nil {
		user = toUserSummary(c.User)
	}
	return dto.CommentResponse{
		ID:              c.ID,
		Comment:         c.Comment,
		User:            user,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Status:          string(l.Status),
		IsApproved:      l.IsApproved(),
		IsViewed:        c.IsViewed,
		ParentCommentID: c.ParentCommentID,
		Replies:         []dto.CommentResponse{},
	}
}

func toHistoryResponse(h *domain.ActionLogAssignmentHistory) dto.AssignmentHistoryResponse {
	assignees := make([]dto.UserResponse, 0, len(h.AssignedTo))
	for i := range h.AssignedTo {
		assignees = append(assignees, *toUserResponse(&h.AssignedTo[i]))
	}
	return dto.AssignmentHistoryResponse{
		ID:         h.ID,
		ActionLog:  h.ActionLogID,
		AssignedBy: toUserResponse(h.AssignedBy),
		AssignedTo: assignees,
		AssignedAt: h.AssignedAt,
		Comment:    h.Comment,
	}
}

func toAttachmentResponse(a *domain.ActionLogAttachment) dto.AttachmentResponse {
	res := dto.AttachmentResponse{
		ID:         a.ID,
		ActionLog:  a.ActionLogID,
		Filename:   a.Filename,
		FileURL:    a.FileURL,
		MimeType:   a.MimeType,
		FileSize:   a.FileSize,
		UploadedAt: a.UploadedAt,
	}
	if a.UploadedBy != nil {
		s := toUserSummary(a.UploadedBy)
		res.UploadedBy = &s
	}
	return res
}

func toAuditLogResponse(a *domain.AuditLog) dto.AuditLogResponse {
	res := dto.AuditLogResponse{
		ID:        a.ID,
		ActorID:   a.ActorID,
		Action:    a.Action,
		CreatedAt: a.CreatedAt,
	}
	if len(a.Details) > 0 {
		var details map[string]any
		if err := json.Unmarshal(a.Details, &details); err == nil {
			res.Details = details
		}
	}
	return res
}

func toNotificationResponse(n *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:               n.ID,
		ActionLogID:      n.ActionLogID,
		CommentID:        n.CommentID,
		NotificationType: string(n.Type),
		Message:          n.Message,
		IsRead:           n.IsRead,
		CreatedAt:        n.CreatedAt,
	}
}
