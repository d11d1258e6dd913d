package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/AmonKats-dev/action-log-app/internal/services"
	"github.com/AmonKats-dev/action-log-app/internal/testutil"
	"github.com/m-mizutani/gt"
)

func TestCreateActionLog(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dept := e.Department(t, "Macro")
	creator := e.User(t, domain.RoleEconomist, dept)
	assignee := e.User(t, domain.RoleEconomist, dept)

	t.Run("persists with defaults", func(t *testing.T) {
		res := e.create(t, creator, dept, assignee.ID, assignee.ID)
		gt.Value(t, res.Status).Equal("open")
		gt.Value(t, res.Priority).Equal("Medium")
		gt.Value(t, res.AssignedTo).Equal([]uint{assignee.ID})
		gt.Value(t, res.CreatedBy).NotNil().Required()
		gt.Value(t, res.CreatedBy.ID).Equal(creator.ID)
		gt.Value(t, res.Department.ID).Equal(dept.ID)
		gt.Array(t, res.Department.Units).Length(1)
		gt.Bool(t, res.CanApprove).False()
		gt.Number(t, res.CommentCount).Equal(0)
		gt.Array(t, e.producer.types()).Has(dto.EventActionLogAssigned)
	})

	t.Run("unknown department names the id and stores nothing", func(t *testing.T) {
		before := countRows(t, e.DB, &domain.ActionLog{})
		_, err := e.svc.Create(ctx, creator, dto.CreateActionLogRequest{
			Title:        "x",
			Description:  "y",
			DepartmentID: ptr(uint(999)),
			AssignedTo:   &[]uint{},
		})
		fields := fieldErrors(t, err)
		gt.Error(t, err).Is(domain.ErrInvalidInput)
		gt.Map(t, fields).HasKey("department_id")
		gt.String(t, fields["department_id"][0]).Contains("999")
		gt.Number(t, countRows(t, e.DB, &domain.ActionLog{})).Equal(before)
	})

	t.Run("past due date stores nothing", func(t *testing.T) {
		before := countRows(t, e.DB, &domain.ActionLog{})
		_, err := e.svc.Create(ctx, creator, dto.CreateActionLogRequest{
			Title:        "x",
			Description:  "y",
			DepartmentID: &dept.ID,
			AssignedTo:   &[]uint{},
			DueDate:      ptr(e.now.Add(-time.Hour)),
		})
		fields := fieldErrors(t, err)
		gt.Map(t, fields).HasKey("due_date")
		gt.Number(t, countRows(t, e.DB, &domain.ActionLog{})).Equal(before)
	})

	t.Run("future due date is accepted", func(t *testing.T) {
		due := e.now.Add(48 * time.Hour)
		res, err := e.svc.Create(ctx, creator, dto.CreateActionLogRequest{
			Title:        "x",
			Description:  "y",
			DepartmentID: &dept.ID,
			AssignedTo:   &[]uint{},
			DueDate:      &due,
			Priority:     "High",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, res.DueDate).NotNil()
		gt.Value(t, res.Priority).Equal("High")
	})

	t.Run("missing assigned_to key and bad choices", func(t *testing.T) {
		_, err := e.svc.Create(ctx, creator, dto.CreateActionLogRequest{
			Title:        "x",
			Description:  "y",
			DepartmentID: &dept.ID,
			Status:       "approved",
			Priority:     "Urgent",
		})
		fields := fieldErrors(t, err)
		gt.Map(t, fields).HasKey("assigned_to")
		gt.Map(t, fields).HasKey("status")
		gt.Map(t, fields).HasKey("priority")
	})

	t.Run("unknown assignee", func(t *testing.T) {
		_, err := e.svc.Create(ctx, creator, dto.CreateActionLogRequest{
			Title:        "x",
			Description:  "y",
			DepartmentID: &dept.ID,
			AssignedTo:   &[]uint{assignee.ID, 4242},
		})
		fields := fieldErrors(t, err)
		gt.String(t, fields["assigned_to"][0]).Contains("4242")
	})

	t.Run("requires create permission", func(t *testing.T) {
		noRole := e.User(t, domain.RoleEconomist, dept, testutil.WithoutRole())
		_, err := e.svc.Create(ctx, noRole, dto.CreateActionLogRequest{})
		gt.Error(t, err).Is(domain.ErrPermissionDenied)
	})

	t.Run("requires a requester", func(t *testing.T) {
		_, err := e.svc.Create(ctx, nil, dto.CreateActionLogRequest{})
		gt.Error(t, err).Is(domain.ErrUnauthenticated)
	})
}

func TestActionLogScoping(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	deptA := e.Department(t, "Macro")
	deptB := e.Department(t, "Tax Policy")
	userA := e.User(t, domain.RoleEconomist, deptA)
	userB := e.User(t, domain.RoleEconomist, deptB)
	commissioner := e.User(t, domain.RoleCommissioner, deptA)
	orphan := e.User(t, domain.RoleEconomist, nil)

	logA := e.create(t, userA, deptA)
	logB := e.create(t, userB, deptB)

	t.Run("own department only", func(t *testing.T) {
		items, err := e.svc.List(ctx, userA, dto.ActionLogQuery{})
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(1).Required()
		gt.Value(t, items[0].ID).Equal(logA.ID)

		_, err = e.svc.Get(ctx, userA, logB.ID)
		gt.Error(t, err).Is(domain.ErrNotFound)
	})

	t.Run("elevated sees everything", func(t *testing.T) {
		items, err := e.svc.List(ctx, commissioner, dto.ActionLogQuery{})
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(2)

		got, err := e.svc.Get(ctx, commissioner, logB.ID)
		gt.NoError(t, err).Required()
		gt.Bool(t, got.CanApprove).True()

		filtered, err := e.svc.List(ctx, commissioner, dto.ActionLogQuery{DepartmentID: &deptB.ID})
		gt.NoError(t, err).Required()
		gt.Array(t, filtered).Length(1)
	})

	t.Run("no department sees nothing", func(t *testing.T) {
		items, err := e.svc.List(ctx, orphan, dto.ActionLogQuery{})
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(0)
	})

	t.Run("out of scope writes are not found", func(t *testing.T) {
		_, err := e.svc.Update(ctx, userA, logB.ID, dto.UpdateActionLogRequest{Title: ptr("x")}, true)
		gt.Error(t, err).Is(domain.ErrNotFound)
		gt.Error(t, e.svc.Delete(ctx, userA, logB.ID)).Is(domain.ErrNotFound)
	})
}

func TestUpdateSideEffects(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dept := e.Department(t, "Macro")
	creator := e.User(t, domain.RoleEconomist, dept)
	other := e.User(t, domain.RoleEconomist, dept)
	l := e.create(t, creator, dept)

	t.Run("assigned_to with comment records history only", func(t *testing.T) {
		res, err := e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{
			AssignedTo: &[]uint{other.ID},
			Comment:    ptr("  over to you  "),
		}, true)
		gt.NoError(t, err).Required()
		gt.Value(t, res.AssignedTo).Equal([]uint{other.ID})

		history, err := e.svc.AssignmentHistory(ctx, creator, l.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(1).Required()
		gt.Value(t, *history[0].Comment).Equal("over to you")
		gt.Value(t, history[0].AssignedBy.ID).Equal(creator.ID)
		gt.Array(t, history[0].AssignedTo).Length(1)

		comments, err := e.comments.ListByActionLog(ctx, l.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, comments).Length(0)
	})

	t.Run("comment without assigned_to records a comment only", func(t *testing.T) {
		res, err := e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{
			Title:   ptr("Renamed"),
			Comment: ptr("renamed it"),
		}, true)
		gt.NoError(t, err).Required()
		gt.Value(t, res.Title).Equal("Renamed")
		gt.Number(t, res.CommentCount).Equal(1)

		history, err := e.svc.AssignmentHistory(ctx, creator, l.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, history).Length(1)
	})

	t.Run("blank comment is ignored", func(t *testing.T) {
		res, err := e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{Comment: ptr("   ")}, true)
		gt.NoError(t, err).Required()
		gt.Number(t, res.CommentCount).Equal(1)
	})

	t.Run("status change publishes an event", func(t *testing.T) {
		res, err := e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{Status: ptr("in_progress")}, true)
		gt.NoError(t, err).Required()
		gt.Value(t, res.Status).Equal("in_progress")
		gt.Array(t, e.producer.types()).Has(dto.EventActionLogStatusChanged)
	})

	t.Run("decision statuses are rejected", func(t *testing.T) {
		_, err := e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{Status: ptr("approved")}, true)
		fields := fieldErrors(t, err)
		gt.Map(t, fields).HasKey("status")
	})

	t.Run("put requires the full payload", func(t *testing.T) {
		_, err := e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{Title: ptr("x")}, false)
		fields := fieldErrors(t, err)
		gt.Map(t, fields).HasKey("description")
		gt.Map(t, fields).HasKey("department_id")
		gt.Map(t, fields).HasKey("assigned_to")
	})

	t.Run("due date can be cleared", func(t *testing.T) {
		due := e.now.Add(time.Hour)
		res, err := e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{
			DueDate: dto.OptionalTime{Set: true, Value: &due},
		}, true)
		gt.NoError(t, err).Required()
		gt.Value(t, res.DueDate).NotNil()

		res, err = e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{
			DueDate: dto.OptionalTime{Set: true},
		}, true)
		gt.NoError(t, err).Required()
		gt.Value(t, res.DueDate).Nil()
	})
}

func TestReassignmentHistoryOrder(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dept := e.Department(t, "Macro")
	creator := e.User(t, domain.RoleEconomist, dept)
	l := e.create(t, creator, dept)

	var assignees []uint
	for i := 0; i < 3; i++ {
		u := e.User(t, domain.RoleEconomist, dept)
		assignees = append(assignees, u.ID)
		_, err := e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{AssignedTo: &[]uint{u.ID}}, true)
		gt.NoError(t, err).Required()
	}

	history, err := e.svc.AssignmentHistory(ctx, creator, l.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, history).Length(3).Required()
	for i, h := range history {
		gt.Array(t, h.AssignedTo).Length(1).Required()
		gt.Value(t, h.AssignedTo[0].ID).Equal(assignees[len(assignees)-1-i])
	}
}

func TestApproveAndReject(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dept := e.Department(t, "Macro")
	otherDept := e.Department(t, "Tax Policy")
	creator := e.User(t, domain.RoleEconomist, dept)
	approver := e.User(t, domain.RolePrincipalEconomist, dept)
	outsider := e.User(t, domain.RolePrincipalEconomist, otherDept)

	t.Run("approve once", func(t *testing.T) {
		l := e.create(t, creator, dept)

		_, err := e.svc.Approve(ctx, creator, l.ID)
		gt.Error(t, err).Is(domain.ErrPermissionDenied)

		res, err := e.svc.Approve(ctx, approver, l.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, res.Status).Equal("approved")
		gt.Value(t, res.ApprovedBy).NotNil().Required()
		gt.Value(t, res.ApprovedBy.ID).Equal(approver.ID)
		gt.Value(t, res.ApprovedAt).NotNil()

		_, err = e.svc.Approve(ctx, approver, l.ID)
		gt.Error(t, err).Is(domain.ErrAlreadyDecided)

		_, err = e.svc.Reject(ctx, approver, l.ID, dto.RejectActionLogRequest{RejectionReason: "late"})
		gt.Error(t, err).Is(domain.ErrAlreadyDecided)

		got, err := e.svc.Get(ctx, approver, l.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal("approved")
		gt.Value(t, got.RejectionReason).Nil()
	})

	t.Run("reject keeps approval fields unset", func(t *testing.T) {
		l := e.create(t, creator, dept)

		res, err := e.svc.Reject(ctx, approver, l.ID, dto.RejectActionLogRequest{RejectionReason: "missing documents"})
		gt.NoError(t, err).Required()
		gt.Value(t, res.Status).Equal("rejected")
		gt.Value(t, *res.RejectionReason).Equal("missing documents")
		gt.Value(t, res.ApprovedBy).Nil()
		gt.Value(t, res.ApprovedAt).Nil()
		gt.Array(t, e.producer.types()).Has(dto.EventActionLogRejected)
	})

	t.Run("reject without permission is a non-field error", func(t *testing.T) {
		l := e.create(t, creator, dept)

		_, err := e.svc.Reject(ctx, creator, l.ID, dto.RejectActionLogRequest{})
		gt.Error(t, err).Is(domain.ErrPermissionDenied)
		fields := fieldErrors(t, err)
		gt.Map(t, fields).HasKey(domain.NonFieldErrors)

		got, err := e.svc.Get(ctx, creator, l.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal("open")
	})

	t.Run("approver outside the department cannot see the log", func(t *testing.T) {
		l := e.create(t, creator, dept)
		_, err := e.svc.Approve(ctx, outsider, l.ID)
		gt.Error(t, err).Is(domain.ErrNotFound)
	})

	t.Run("status cannot move after a decision", func(t *testing.T) {
		l := e.create(t, creator, dept)
		_, err := e.svc.Approve(ctx, approver, l.ID)
		gt.NoError(t, err).Required()

		_, err = e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{Status: ptr("closed")}, true)
		gt.Error(t, err).Is(domain.ErrAlreadyDecided)
	})
}

func TestDeleteActionLog(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dept := e.Department(t, "Macro")
	creator := e.User(t, domain.RoleEconomist, dept)
	colleague := e.User(t, domain.RoleEconomist, dept)
	l := e.create(t, creator, dept)

	gt.Error(t, e.svc.Delete(ctx, colleague, l.ID)).Is(domain.ErrPermissionDenied)
	gt.NoError(t, e.svc.Delete(ctx, creator, l.ID)).Required()

	_, err := e.svc.Get(ctx, creator, l.ID)
	gt.Error(t, err).Is(domain.ErrNotFound)
}

func TestAuditTrail(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dept := e.Department(t, "Macro")
	creator := e.User(t, domain.RoleEconomist, dept)
	approver := e.User(t, domain.RoleAssistantCommissioner, dept)
	l := e.create(t, creator, dept)

	_, err := e.svc.Update(ctx, creator, l.ID, dto.UpdateActionLogRequest{Title: ptr("Renamed")}, true)
	gt.NoError(t, err).Required()
	_, err = e.svc.Approve(ctx, approver, l.ID)
	gt.NoError(t, err).Required()

	entries, err := e.svc.AuditLogs(ctx, creator, l.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(3).Required()
	gt.Value(t, entries[0].Action).Equal(domain.AuditActionApproved)
	gt.Value(t, entries[2].Action).Equal(domain.AuditActionCreated)
	gt.Value(t, entries[2].ActorID).Equal(creator.ID)
}

func TestScopeFor(t *testing.T) {
	deptID := uint(7)
	gt.Value(t, services.ScopeFor(nil).All).Equal(false)
	gt.Value(t, services.ScopeFor(&domain.User{DepartmentID: &deptID}).DepartmentID).Equal(deptID)
	gt.Bool(t, services.ScopeFor(&domain.User{Role: &domain.Role{Name: domain.RoleSuperAdmin}}).All).True()
}
