package comments

import (
	"context"
	"fmt"
	"time"

	"github.com/lookids/lookids/events"
	"github.com/lookids/lookids/pagination"
)

type Service struct {
	commentRepo CommentRepository
	codeGen     *CodeGenerator
	publisher   events.Publisher
}

func NewService(commentRepo CommentRepository, publisher events.Publisher) *Service {
	return &Service{
		commentRepo: commentRepo,
		codeGen:     NewCodeGenerator(commentRepo),
		publisher:   publisher,
	}
}

type CreateCommentRequest struct {
	FeedUUID string
	FeedCode string
	UserUUID string
	Content  string
}

// CreateComment inserts an active root comment and emits CommentCreated.
// The create is not complete until the publish succeeds.
func (svc *Service) CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error) {
	code, err := svc.codeGen.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate comment code: %w", err)
	}

	comment := &Comment{
		CommentCode: code,
		FeedCode:    req.FeedCode,
		FeedUUID:    req.FeedUUID,
		UserUUID:    req.UserUUID,
		Content:     req.Content,
		Status:      StatusActive,
		CreatedAt:   time.Now(),
	}

	err = svc.commentRepo.Insert(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	err = svc.publisher.Publish(ctx, events.TopicCommentCreated, events.CommentCreated{
		CommentCode: comment.CommentCode,
		FeedCode:    comment.FeedCode,
		FeedUUID:    comment.FeedUUID,
		UserUUID:    comment.UserUUID,
		Content:     comment.Content,
		CreatedAt:   comment.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish comment created event: %w", err)
	}

	return comment, nil
}

type CreateReplyRequest struct {
	FeedUUID          string
	FeedCode          string
	UserUUID          string
	Content           string
	ParentCommentCode string
}

// CreateReply inserts an active reply row and emits ReplyCreated.
func (svc *Service) CreateReply(ctx context.Context, req CreateReplyRequest) (*Comment, error) {
	code, err := svc.codeGen.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate comment code: %w", err)
	}

	reply := &Comment{
		CommentCode:       code,
		FeedCode:          req.FeedCode,
		FeedUUID:          req.FeedUUID,
		UserUUID:          req.UserUUID,
		Content:           req.Content,
		ParentCommentCode: req.ParentCommentCode,
		Status:            StatusActive,
		CreatedAt:         time.Now(),
	}

	err = svc.commentRepo.Insert(ctx, reply)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reply: %w", err)
	}

	err = svc.publisher.Publish(ctx, events.TopicReplyCreated, events.ReplyCreated{
		CommentCode:       reply.CommentCode,
		FeedCode:          reply.FeedCode,
		FeedUUID:          reply.FeedUUID,
		UserUUID:          reply.UserUUID,
		Content:           reply.Content,
		CreatedAt:         reply.CreatedAt,
		ParentCommentCode: reply.ParentCommentCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish reply created event: %w", err)
	}

	return reply, nil
}

// DeleteComment soft-deletes a root comment owned by userUUID, together
// with its replies, and emits CommentDeleted with the pre-delete
// snapshot. The event goes out before the status flip: a crash in
// between leaves a dangling delete event the read side tolerates, never
// an unpublished deletion.
func (svc *Service) DeleteComment(ctx context.Context, commentCode, userUUID string) error {
	comment, err := svc.commentRepo.FindActiveByCodeAndUser(ctx, commentCode, userUUID)
	if err != nil {
		return fmt.Errorf("failed to load comment %q: %w", commentCode, err)
	}

	err = svc.publisher.Publish(ctx, events.TopicCommentDeleted, events.CommentDeleted{
		CommentCode: comment.CommentCode,
		FeedCode:    comment.FeedCode,
		UserUUID:    comment.UserUUID,
	})
	if err != nil {
		return fmt.Errorf("failed to publish comment deleted event: %w", err)
	}

	err = svc.commentRepo.SoftDelete(ctx, comment.CommentCode)
	if err != nil {
		return fmt.Errorf("failed to soft delete comment: %w", err)
	}

	return nil
}

// DeleteReply soft-deletes a reply owned by userUUID and emits
// ReplyDeleted. Same ordering as DeleteComment.
func (svc *Service) DeleteReply(ctx context.Context, commentCode, userUUID string) error {
	reply, err := svc.commentRepo.FindActiveByCodeAndUser(ctx, commentCode, userUUID)
	if err != nil {
		return fmt.Errorf("failed to load reply %q: %w", commentCode, err)
	}

	err = svc.publisher.Publish(ctx, events.TopicReplyDeleted, events.ReplyDeleted{
		CommentCode:       reply.CommentCode,
		FeedCode:          reply.FeedCode,
		ParentCommentCode: reply.ParentCommentCode,
	})
	if err != nil {
		return fmt.Errorf("failed to publish reply deleted event: %w", err)
	}

	err = svc.commentRepo.SoftDelete(ctx, reply.CommentCode)
	if err != nil {
		return fmt.Errorf("failed to soft delete reply: %w", err)
	}

	return nil
}

// ListComments pages the active root comments of a feed, newest first.
func (svc *Service) ListComments(ctx context.Context, feedCode string, page, size int) (*pagination.Page[*Comment], error) {
	items, total, err := svc.commentRepo.ListActive(ctx, &ListActiveParams{
		FeedCode: feedCode,
		Page:     page,
		Size:     size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return pagination.NewPage(items, page, size, total), nil
}

// ListReplies pages the active replies of a root comment, newest first.
func (svc *Service) ListReplies(ctx context.Context, parentCommentCode string, page, size int) (*pagination.Page[*Comment], error) {
	items, total, err := svc.commentRepo.ListActive(ctx, &ListActiveParams{
		ParentCommentCode: parentCommentCode,
		Page:              page,
		Size:              size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}

	return pagination.NewPage(items, page, size, total), nil
}
