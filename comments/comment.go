package comments

import (
	"context"
	"fmt"
	"time"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Comment is the authoritative write-side row. A reply is a Comment with
// a non-empty ParentCommentCode; there is no separate reply entity.
// CommentCode is globally unique and immutable once assigned. Rows are
// never hard-deleted, only flipped to StatusDeleted.
type Comment struct {
	CommentCode       string
	FeedCode          string
	FeedUUID          string
	UserUUID          string
	Content           string
	ParentCommentCode string
	Status            Status
	CreatedAt         time.Time
}

func (c *Comment) IsReply() bool {
	return c.ParentCommentCode != ""
}

// ListActiveParams filters active rows either by feed (root comments) or
// by parent (replies), never both.
type ListActiveParams struct {
	FeedCode          string
	ParentCommentCode string
	Page              int
	Size              int
}

type CommentRepository interface {
	Insert(ctx context.Context, comment *Comment) (err error)
	ExistsByCode(ctx context.Context, commentCode string) (exists bool, err error)
	FindActiveByCodeAndUser(ctx context.Context, commentCode, userUUID string) (comment *Comment, err error)
	// SoftDelete flips the row to StatusDeleted, along with any reply
	// rows beneath it. Replies never outlive their root comment, so
	// CountActiveByFeed stays equal to what readers can see.
	SoftDelete(ctx context.Context, commentCode string) (err error)
	ListActive(ctx context.Context, params *ListActiveParams) (comments []*Comment, total int64, err error)
	CountActiveByFeed(ctx context.Context, feedCode string) (total int64, err error)
}

// CommentNotFoundError covers both a missing row and an ownership
// mismatch; callers must not be able to tell the two apart.
type CommentNotFoundError struct {
	CommentCode string
}

func (err CommentNotFoundError) Error() string {
	return fmt.Sprintf("comment with code %q not found", err.CommentCode)
}

type DuplicateCodeError struct {
	Attempts int
}

func (err DuplicateCodeError) Error() string {
	return fmt.Sprintf("failed to generate a unique comment code after %d attempts", err.Attempts)
}
