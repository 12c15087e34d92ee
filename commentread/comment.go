package commentread

import (
	"context"
	"fmt"
	"time"
)

// CommentForRead is the denormalized document for one root comment.
// Embedded replies are copies with their own lifecycle, independent of
// the write-side row's physical existence. ReplyCount mirrors
// len(ReplyList) and must be adjusted atomically with every list
// mutation.
type CommentForRead struct {
	CommentCode string         `bson:"commentCode" json:"commentCode"`
	FeedCode    string         `bson:"feedCode" json:"feedCode"`
	UserUUID    string         `bson:"userUuid" json:"userUuid"`
	Nickname    string         `bson:"nickname" json:"nickname"`
	Image       string         `bson:"image" json:"image"`
	Content     string         `bson:"content" json:"content"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	ReplyCount  int            `bson:"replyCount" json:"replyCount"`
	ReplyList   []ReplyForRead `bson:"replyList" json:"replyList"`
}

type ReplyForRead struct {
	CommentCode string    `bson:"commentCode" json:"commentCode"`
	UserUUID    string    `bson:"userUuid" json:"userUuid"`
	Nickname    string    `bson:"nickname" json:"nickname"`
	Image       string    `bson:"image" json:"image"`
	Content     string    `bson:"content" json:"content"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// FeedCount is the per-feed aggregate: active root comments plus active
// replies. Upserted lazily on the first event for a feed; never
// negative after reconciliation.
type FeedCount struct {
	FeedCode          string `bson:"feedCode" json:"feedCode"`
	TotalCommentCount int64  `bson:"totalCommentCount" json:"totalCommentCount"`
}

// ProfilePatch carries denormalized author fields to propagate into
// historical documents. Empty fields are left untouched.
type ProfilePatch struct {
	Nickname string
	Image    string
}

func (patch ProfilePatch) IsZero() bool {
	return patch.Nickname == "" && patch.Image == ""
}

type Repository interface {
	InsertComment(ctx context.Context, comment *CommentForRead) (err error)
	FindByCommentCode(ctx context.Context, commentCode string) (comment *CommentForRead, err error)
	ListByFeed(ctx context.Context, feedCode string, page, size int) (comments []*CommentForRead, total int64, err error)
	AppendReply(ctx context.Context, parentCommentCode string, reply *ReplyForRead) (err error)
	PullReply(ctx context.Context, replyCommentCode string) (err error)
	RemoveComment(ctx context.Context, commentCode string) (err error)
	FeedCodeByComment(ctx context.Context, commentCode string) (feedCode string, err error)
	IncrementFeedCount(ctx context.Context, feedCode string, delta int64) (err error)
	SetFeedCount(ctx context.Context, feedCode string, total int64) (err error)
	FindFeedCount(ctx context.Context, feedCode string) (count *FeedCount, err error)
	UpdateAuthorProfile(ctx context.Context, userUUID string, patch ProfilePatch) (err error)
}

type CommentNotFoundError struct {
	CommentCode string
}

func (err CommentNotFoundError) Error() string {
	return fmt.Sprintf("comment document with code %q not found", err.CommentCode)
}

type FeedCountNotFoundError struct {
	FeedCode string
}

func (err FeedCountNotFoundError) Error() string {
	return fmt.Sprintf("feed count for feed %q not found", err.FeedCode)
}
