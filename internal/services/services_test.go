package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/AmonKats-dev/action-log-app/internal/services"
	"github.com/AmonKats-dev/action-log-app/internal/testutil"
	"github.com/m-mizutani/gt"
	"gorm.io/gorm"
)

// recordingProducer captures published events.
type recordingProducer struct {
	mu     sync.Mutex
	events []dto.ActionLogEvent
}

func (p *recordingProducer) PublishMessage(_ context.Context, _, value []byte) error {
	var ev dto.ActionLogEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingProducer) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type env struct {
	*testutil.Fixture
	logs     repository.ActionLogRepository
	comments repository.CommentRepository
	producer *recordingProducer
	svc      services.ActionLogService
	commentS services.CommentService
	now      time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	f := testutil.NewFixture(t)
	db := f.DB
	e := &env{
		Fixture:  f,
		logs:     repository.NewActionLogRepository(db),
		comments: repository.NewCommentRepository(db),
		producer: &recordingProducer{},
		now:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	clock := services.WithClock(func() time.Time { return e.now })
	e.svc = services.NewActionLogService(
		e.logs,
		f.Users,
		repository.NewDepartmentRepository(db),
		repository.NewAssignmentHistoryRepository(db),
		repository.NewAuditRepository(db),
		e.producer,
		clock,
	)
	e.commentS = services.NewCommentService(e.logs, e.comments, e.producer, clock)
	return e
}

func ptr[T any](v T) *T { return &v }

func (e *env) create(t *testing.T, requester *domain.User, dept *domain.Department, assignees ...uint) *dto.ActionLogResponse {
	t.Helper()
	if assignees == nil {
		assignees = []uint{}
	}
	res, err := e.svc.Create(context.Background(), requester, dto.CreateActionLogRequest{
		Title:        "Prepare budget brief",
		Description:  "Consolidate unit inputs",
		DepartmentID: &dept.ID,
		AssignedTo:   &assignees,
	})
	gt.NoError(t, err).Required()
	return res
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	gt.NoError(t, db.Model(model).Count(&n).Error).Required()
	return n
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ve *domain.ValidationError
	gt.Bool(t, errors.As(err, &ve)).True()
	gt.Value(t, ve).NotNil().Required()
	return ve.Fields
}
