package commentread_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lookids/lookids/commentread"
	"github.com/lookids/lookids/events"
)

// fakeReadRepo keeps the projected documents in memory with the same
// semantics as the mongo implementation: counters upsert on increment,
// pulls fail on a missing reply, lookups return typed not-found errors.
type fakeReadRepo struct {
	comments map[string]*commentread.CommentForRead
	counts   map[string]int64
}

func newFakeReadRepo() *fakeReadRepo {
	return &fakeReadRepo{
		comments: make(map[string]*commentread.CommentForRead),
		counts:   make(map[string]int64),
	}
}

func (repo *fakeReadRepo) InsertComment(_ context.Context, comment *commentread.CommentForRead) error {
	cp := *comment
	cp.ReplyList = slices.Clone(comment.ReplyList)
	repo.comments[comment.CommentCode] = &cp

	return nil
}

func (repo *fakeReadRepo) FindByCommentCode(_ context.Context, commentCode string) (*commentread.CommentForRead, error) {
	comment, ok := repo.comments[commentCode]
	if !ok {
		return nil, commentread.CommentNotFoundError{CommentCode: commentCode}
	}

	cp := *comment
	cp.ReplyList = slices.Clone(comment.ReplyList)

	return &cp, nil
}

func (repo *fakeReadRepo) ListByFeed(_ context.Context, feedCode string, page, size int) ([]*commentread.CommentForRead, int64, error) {
	matched := make([]*commentread.CommentForRead, 0)

	for _, comment := range repo.comments {
		if comment.FeedCode != feedCode {
			continue
		}

		cp := *comment
		matched = append(matched, &cp)
	}

	slices.SortFunc(matched, func(a, b *commentread.CommentForRead) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := int64(len(matched))

	offset := min(page*size, len(matched))
	end := min(offset+size, len(matched))

	return matched[offset:end], total, nil
}

func (repo *fakeReadRepo) AppendReply(_ context.Context, parentCommentCode string, reply *commentread.ReplyForRead) error {
	parent, ok := repo.comments[parentCommentCode]
	if !ok {
		return commentread.CommentNotFoundError{CommentCode: parentCommentCode}
	}

	parent.ReplyList = append(parent.ReplyList, *reply)
	parent.ReplyCount++

	return nil
}

func (repo *fakeReadRepo) PullReply(_ context.Context, replyCommentCode string) error {
	for _, parent := range repo.comments {
		idx := slices.IndexFunc(parent.ReplyList, func(reply commentread.ReplyForRead) bool {
			return reply.CommentCode == replyCommentCode
		})
		if idx < 0 {
			continue
		}

		parent.ReplyList = slices.Delete(parent.ReplyList, idx, idx+1)
		parent.ReplyCount--

		return nil
	}

	return commentread.CommentNotFoundError{CommentCode: replyCommentCode}
}

func (repo *fakeReadRepo) RemoveComment(_ context.Context, commentCode string) error {
	delete(repo.comments, commentCode)

	return nil
}

func (repo *fakeReadRepo) FeedCodeByComment(_ context.Context, commentCode string) (string, error) {
	comment, ok := repo.comments[commentCode]
	if !ok {
		return "", commentread.CommentNotFoundError{CommentCode: commentCode}
	}

	return comment.FeedCode, nil
}

func (repo *fakeReadRepo) IncrementFeedCount(_ context.Context, feedCode string, delta int64) error {
	repo.counts[feedCode] += delta

	return nil
}

func (repo *fakeReadRepo) SetFeedCount(_ context.Context, feedCode string, total int64) error {
	repo.counts[feedCode] = total

	return nil
}

func (repo *fakeReadRepo) FindFeedCount(_ context.Context, feedCode string) (*commentread.FeedCount, error) {
	total, ok := repo.counts[feedCode]
	if !ok {
		return nil, commentread.FeedCountNotFoundError{FeedCode: feedCode}
	}

	return &commentread.FeedCount{FeedCode: feedCode, TotalCommentCount: total}, nil
}

func (repo *fakeReadRepo) UpdateAuthorProfile(_ context.Context, userUUID string, patch commentread.ProfilePatch) error {
	for _, comment := range repo.comments {
		if comment.UserUUID == userUUID {
			if patch.Nickname != "" {
				comment.Nickname = patch.Nickname
			}

			if patch.Image != "" {
				comment.Image = patch.Image
			}
		}

		for i := range comment.ReplyList {
			if comment.ReplyList[i].UserUUID != userUUID {
				continue
			}

			if patch.Nickname != "" {
				comment.ReplyList[i].Nickname = patch.Nickname
			}

			if patch.Image != "" {
				comment.ReplyList[i].Image = patch.Image
			}
		}
	}

	return nil
}

var _ commentread.Repository = (*fakeReadRepo)(nil)

func commentCreated(commentCode, feedCode, userUUID string, createdAt time.Time) events.CommentCreated {
	return events.CommentCreated{
		CommentCode: commentCode,
		FeedCode:    feedCode,
		UserUUID:    userUUID,
		Content:     "content of " + commentCode,
		CreatedAt:   createdAt,
	}
}

func replyCreated(commentCode, feedCode, userUUID, parentCommentCode string, createdAt time.Time) events.ReplyCreated {
	return events.ReplyCreated{
		CommentCode:       commentCode,
		FeedCode:          feedCode,
		UserUUID:          userUUID,
		Content:           "content of " + commentCode,
		CreatedAt:         createdAt,
		ParentCommentCode: parentCommentCode,
	}
}

func TestProjector_HandleCommentCreated(t *testing.T) {
	ctx := context.Background()

	repo := newFakeReadRepo()
	projector := commentread.NewProjector(repo)

	err := projector.HandleCommentCreated(ctx, commentCreated("c1", "feed-1", "user-1", time.Now()))
	require.NoError(t, err)

	comment, err := repo.FindByCommentCode(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "feed-1", comment.FeedCode)
	require.Equal(t, 0, comment.ReplyCount)
	require.Empty(t, comment.ReplyList)

	count, err := repo.FindFeedCount(ctx, "feed-1")
	require.NoError(t, err)
	require.Equal(t, int64(1), count.TotalCommentCount)
}

func TestProjector_HandleReplyCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds the reply and counts it towards the feed", func(t *testing.T) {
		repo := newFakeReadRepo()
		projector := commentread.NewProjector(repo)

		require.NoError(t, projector.HandleCommentCreated(ctx, commentCreated("c1", "feed-1", "user-1", time.Now())))

		err := projector.HandleReplyCreated(ctx, replyCreated("r1", "feed-1", "user-2", "c1", time.Now()))
		require.NoError(t, err)

		parent, err := repo.FindByCommentCode(ctx, "c1")
		require.NoError(t, err)
		require.Equal(t, 1, parent.ReplyCount)
		require.Len(t, parent.ReplyList, 1)
		require.Equal(t, "r1", parent.ReplyList[0].CommentCode)
		require.Equal(t, "user-2", parent.ReplyList[0].UserUUID)

		count, err := repo.FindFeedCount(ctx, "feed-1")
		require.NoError(t, err)
		require.Equal(t, int64(2), count.TotalCommentCount)
	})

	t.Run("orphan reply is skipped without touching the counter", func(t *testing.T) {
		repo := newFakeReadRepo()
		projector := commentread.NewProjector(repo)

		err := projector.HandleReplyCreated(ctx, replyCreated("r1", "feed-1", "user-2", "ghost", time.Now()))
		require.NoError(t, err)

		_, err = repo.FindFeedCount(ctx, "feed-1")

		var notFoundErr commentread.FeedCountNotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestProjector_HandleCommentDeleted(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the document and its replies from the counter", func(t *testing.T) {
		repo := newFakeReadRepo()
		projector := commentread.NewProjector(repo)

		require.NoError(t, projector.HandleCommentCreated(ctx, commentCreated("c1", "feed-1", "user-1", time.Now())))
		require.NoError(t, projector.HandleReplyCreated(ctx, replyCreated("r1", "feed-1", "user-2", "c1", time.Now())))
		require.NoError(t, projector.HandleReplyCreated(ctx, replyCreated("r2", "feed-1", "user-3", "c1", time.Now())))

		err := projector.HandleCommentDeleted(ctx, events.CommentDeleted{
			CommentCode: "c1",
			FeedCode:    "feed-1",
			UserUUID:    "user-1",
		})
		require.NoError(t, err)

		_, err = repo.FindByCommentCode(ctx, "c1")

		var notFoundErr commentread.CommentNotFoundError
		require.ErrorAs(t, err, &notFoundErr)

		// 3 counted in, 1 root + 2 replies counted back out.
		count, err := repo.FindFeedCount(ctx, "feed-1")
		require.NoError(t, err)
		require.Equal(t, int64(0), count.TotalCommentCount)
	})

	t.Run("delete for a missing document is a no-op", func(t *testing.T) {
		repo := newFakeReadRepo()
		projector := commentread.NewProjector(repo)

		err := projector.HandleCommentDeleted(ctx, events.CommentDeleted{
			CommentCode: "ghost",
			FeedCode:    "feed-1",
		})
		require.NoError(t, err)

		_, err = repo.FindFeedCount(ctx, "feed-1")

		var notFoundErr commentread.FeedCountNotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestProjector_HandleReplyDeleted(t *testing.T) {
	ctx := context.Background()

	t.Run("pulls only the deleted reply and decrements by one", func(t *testing.T) {
		repo := newFakeReadRepo()
		projector := commentread.NewProjector(repo)

		require.NoError(t, projector.HandleCommentCreated(ctx, commentCreated("c1", "feed-1", "user-1", time.Now())))
		require.NoError(t, projector.HandleReplyCreated(ctx, replyCreated("r1", "feed-1", "user-2", "c1", time.Now())))
		require.NoError(t, projector.HandleReplyCreated(ctx, replyCreated("r2", "feed-1", "user-3", "c1", time.Now())))

		err := projector.HandleReplyDeleted(ctx, events.ReplyDeleted{
			CommentCode:       "r1",
			FeedCode:          "feed-1",
			ParentCommentCode: "c1",
		})
		require.NoError(t, err)

		parent, err := repo.FindByCommentCode(ctx, "c1")
		require.NoError(t, err)
		require.Equal(t, 1, parent.ReplyCount)
		require.Len(t, parent.ReplyList, 1)
		require.Equal(t, "r2", parent.ReplyList[0].CommentCode)

		count, err := repo.FindFeedCount(ctx, "feed-1")
		require.NoError(t, err)
		require.Equal(t, int64(2), count.TotalCommentCount)
	})

	t.Run("skips the decrement when the parent cannot be resolved", func(t *testing.T) {
		repo := newFakeReadRepo()
		projector := commentread.NewProjector(repo)

		require.NoError(t, projector.HandleCommentCreated(ctx, commentCreated("c1", "feed-1", "user-1", time.Now())))
		require.NoError(t, projector.HandleReplyCreated(ctx, replyCreated("r1", "feed-1", "user-2", "c1", time.Now())))

		err := projector.HandleReplyDeleted(ctx, events.ReplyDeleted{
			CommentCode:       "r1",
			FeedCode:          "feed-1",
			ParentCommentCode: "ghost",
		})
		require.NoError(t, err)

		// The reply is gone but the counter keeps its pre-delete value.
		parent, err := repo.FindByCommentCode(ctx, "c1")
		require.NoError(t, err)
		require.Empty(t, parent.ReplyList)

		count, err := repo.FindFeedCount(ctx, "feed-1")
		require.NoError(t, err)
		require.Equal(t, int64(2), count.TotalCommentCount)
	})

	t.Run("delete for a missing reply is a no-op", func(t *testing.T) {
		repo := newFakeReadRepo()
		projector := commentread.NewProjector(repo)

		err := projector.HandleReplyDeleted(ctx, events.ReplyDeleted{
			CommentCode:       "ghost",
			FeedCode:          "feed-1",
			ParentCommentCode: "c1",
		})
		require.NoError(t, err)
	})
}

func TestProjector_HandleUserProfileUpdated(t *testing.T) {
	ctx := context.Background()

	repo := newFakeReadRepo()
	projector := commentread.NewProjector(repo)

	require.NoError(t, projector.HandleCommentCreated(ctx, commentCreated("c1", "feed-1", "user-1", time.Now())))
	require.NoError(t, projector.HandleCommentCreated(ctx, commentCreated("c2", "feed-2", "user-2", time.Now())))
	require.NoError(t, projector.HandleReplyCreated(ctx, replyCreated("r1", "feed-2", "user-1", "c2", time.Now())))

	err := projector.HandleUserProfileUpdated(ctx, events.UserProfileUpdated{
		UserUUID: "user-1",
		Nickname: "renamed",
	})
	require.NoError(t, err)

	// Root document and embedded reply both carry the new nickname.
	c1, err := repo.FindByCommentCode(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "renamed", c1.Nickname)

	c2, err := repo.FindByCommentCode(ctx, "c2")
	require.NoError(t, err)
	require.Empty(t, c2.Nickname)
	require.Equal(t, "renamed", c2.ReplyList[0].Nickname)
}
