package services_test

import (
	"context"
	"testing"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/dto"
	"github.com/m-mizutani/gt"
)

func TestCommentThread(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dept := e.Department(t, "Macro")
	author := e.User(t, domain.RoleEconomist, dept)
	approver := e.User(t, domain.RolePrincipalEconomist, dept)
	l := e.create(t, author, dept)
	other := e.create(t, author, dept)

	root, err := e.commentS.Add(ctx, author, l.ID, dto.CreateCommentRequest{Comment: "first draft"})
	gt.NoError(t, err).Required()
	reply, err := e.commentS.Add(ctx, approver, l.ID, dto.CreateCommentRequest{Comment: "looks fine", ParentCommentID: &root.ID})
	gt.NoError(t, err).Required()
	_, err = e.commentS.Add(ctx, author, l.ID, dto.CreateCommentRequest{Comment: "thanks", ParentCommentID: &reply.ID})
	gt.NoError(t, err).Required()

	t.Run("empty comment is rejected", func(t *testing.T) {
		_, err := e.commentS.Add(ctx, author, l.ID, dto.CreateCommentRequest{Comment: "  "})
		gt.Error(t, err).Is(domain.ErrInvalidInput)
		gt.Map(t, fieldErrors(t, err)).HasKey("comment")
	})

	t.Run("parent from another log is not found", func(t *testing.T) {
		_, err := e.commentS.Add(ctx, author, other.ID, dto.CreateCommentRequest{Comment: "x", ParentCommentID: &root.ID})
		gt.Error(t, err).Is(domain.ErrNotFound)
	})

	t.Run("replies are nested under top level comments", func(t *testing.T) {
		tree, err := e.commentS.List(ctx, author, l.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, tree).Length(1).Required()
		gt.Value(t, tree[0].ID).Equal(root.ID)
		gt.Array(t, tree[0].Replies).Length(1).Required()
		gt.Value(t, tree[0].Replies[0].User.ID).Equal(approver.ID)
		gt.Array(t, tree[0].Replies[0].Replies).Length(1)
	})

	t.Run("nodes carry the current log status", func(t *testing.T) {
		_, err := e.svc.Approve(ctx, approver, l.ID)
		gt.NoError(t, err).Required()

		tree, err := e.commentS.List(ctx, author, l.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, tree).Length(1).Required()
		gt.Value(t, tree[0].Status).Equal("approved")
		gt.Bool(t, tree[0].IsApproved).True()
		gt.Bool(t, tree[0].Replies[0].IsApproved).True()

		got, err := e.svc.Get(ctx, author, l.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, got.CommentCount).Equal(3)
	})

	t.Run("mark viewed", func(t *testing.T) {
		n, err := e.commentS.MarkViewed(ctx, author, l.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, n).Equal(3)
	})

	t.Run("comment publishes an event to the creator", func(t *testing.T) {
		var found bool
		for _, ev := range e.producer.events {
			if ev.Type == dto.EventActionLogCommented && ev.ActorID == approver.ID {
				found = true
				gt.Array(t, ev.RecipientIDs).Has(author.ID)
				gt.Value(t, ev.CommentID).NotNil()
			}
		}
		gt.Bool(t, found).True()
	})
}
