package commentread

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/lookids/lookids/pagination"
)

// QueryService serves paginated reads from the projected documents.
// Everything it returns may lag the write side; it never consults the
// write store.
type QueryService struct {
	repo Repository
}

func NewQueryService(repo Repository) *QueryService {
	return &QueryService{repo: repo}
}

// ReadCommentList pages the root comments of a feed, newest first.
func (svc *QueryService) ReadCommentList(ctx context.Context, feedCode string, page, size int) (*pagination.Page[*CommentForRead], error) {
	items, total, err := svc.repo.ListByFeed(ctx, feedCode, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list comment documents: %w", err)
	}

	return pagination.NewPage(items, page, size, total), nil
}

// ReadReplyList pages the embedded reply list of a root comment, newest
// first. The list lives inside the parent document, so sorting and
// slicing happen here.
func (svc *QueryService) ReadReplyList(ctx context.Context, parentCommentCode string, page, size int) (*pagination.Page[ReplyForRead], error) {
	comment, err := svc.repo.FindByCommentCode(ctx, parentCommentCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment document: %w", err)
	}

	replies := slices.Clone(comment.ReplyList)
	slices.SortFunc(replies, func(a, b ReplyForRead) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	offset := pagination.Offset(page, size)
	if offset > len(replies) {
		offset = len(replies)
	}

	end := offset + size
	if end > len(replies) {
		end = len(replies)
	}

	return pagination.NewPage(replies[offset:end], page, size, int64(len(replies))), nil
}

// ReadCommentCount returns the feed's aggregate counter. A feed nobody
// commented on yet is not an error, it is a zero count.
func (svc *QueryService) ReadCommentCount(ctx context.Context, feedCode string) (*FeedCount, error) {
	count, err := svc.repo.FindFeedCount(ctx, feedCode)
	if err != nil {
		var notFoundErr FeedCountNotFoundError
		if errors.As(err, &notFoundErr) {
			return &FeedCount{FeedCode: feedCode}, nil
		}

		return nil, fmt.Errorf("failed to load feed count: %w", err)
	}

	return count, nil
}
