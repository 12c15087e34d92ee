package commentread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lookids/lookids/events"
)

// Projector maintains the read-side documents purely from lifecycle
// events. A handler never fails the subscription: events that reference
// missing documents are logged and skipped so consumption always makes
// progress.
type Projector struct {
	repo Repository
}

func NewProjector(repo Repository) *Projector {
	return &Projector{repo: repo}
}

// Start registers the projector on every topic it consumes and returns a
// function that tears the subscriptions down again.
func (p *Projector) Start(sub events.Subscriber) (stop func()) {
	unsubscribes := []func(){
		sub.Subscribe(events.TopicCommentCreated, dispatch(p.HandleCommentCreated)),
		sub.Subscribe(events.TopicReplyCreated, dispatch(p.HandleReplyCreated)),
		sub.Subscribe(events.TopicCommentDeleted, dispatch(p.HandleCommentDeleted)),
		sub.Subscribe(events.TopicReplyDeleted, dispatch(p.HandleReplyDeleted)),
		sub.Subscribe(events.TopicUserProfileUpdated, dispatch(p.HandleUserProfileUpdated)),
	}

	return func() {
		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
	}
}

// dispatch adapts a typed handler to a bus callback. Failures are logged
// and swallowed; a bad event must not stall the topic.
func dispatch[E any](handle func(ctx context.Context, event E) error) func(topic string, message any) {
	return func(topic string, message any) {
		event, ok := message.(E)
		if !ok {
			slog.Warn("dropping message with unexpected payload type", "topic", topic)

			return
		}

		err := handle(context.Background(), event)
		if err != nil {
			slog.Warn("failed to project event", "topic", topic, "error", err)
		}
	}
}

func (p *Projector) HandleCommentCreated(ctx context.Context, event events.CommentCreated) error {
	comment := &CommentForRead{
		CommentCode: event.CommentCode,
		FeedCode:    event.FeedCode,
		UserUUID:    event.UserUUID,
		Content:     event.Content,
		CreatedAt:   event.CreatedAt,
		ReplyList:   []ReplyForRead{},
	}

	err := p.repo.InsertComment(ctx, comment)
	if err != nil {
		return fmt.Errorf("failed to insert comment document: %w", err)
	}

	err = p.repo.IncrementFeedCount(ctx, event.FeedCode, 1)
	if err != nil {
		return fmt.Errorf("failed to increment feed count: %w", err)
	}

	return nil
}

func (p *Projector) HandleReplyCreated(ctx context.Context, event events.ReplyCreated) error {
	reply := &ReplyForRead{
		CommentCode: event.CommentCode,
		UserUUID:    event.UserUUID,
		Content:     event.Content,
		CreatedAt:   event.CreatedAt,
	}

	err := p.repo.AppendReply(ctx, event.ParentCommentCode, reply)
	if err != nil {
		var notFoundErr CommentNotFoundError
		if errors.As(err, &notFoundErr) {
			// Orphan reply: the parent document never arrived.
			slog.WarnContext(ctx, "reply event references a missing parent comment",
				"commentCode", event.CommentCode,
				"parentCommentCode", event.ParentCommentCode)

			return nil
		}

		return fmt.Errorf("failed to append reply: %w", err)
	}

	err = p.repo.IncrementFeedCount(ctx, event.FeedCode, 1)
	if err != nil {
		return fmt.Errorf("failed to increment feed count: %w", err)
	}

	return nil
}

// HandleCommentDeleted removes the document and decrements the feed
// counter by one plus the embedded reply count, since removing a root
// comment takes all its replies with it.
func (p *Projector) HandleCommentDeleted(ctx context.Context, event events.CommentDeleted) error {
	comment, err := p.repo.FindByCommentCode(ctx, event.CommentCode)
	if err != nil {
		var notFoundErr CommentNotFoundError
		if errors.As(err, &notFoundErr) {
			slog.WarnContext(ctx, "delete event references a missing comment document",
				"commentCode", event.CommentCode)

			return nil
		}

		return fmt.Errorf("failed to load comment document: %w", err)
	}

	totalToDelete := int64(1 + comment.ReplyCount)

	err = p.repo.RemoveComment(ctx, event.CommentCode)
	if err != nil {
		return fmt.Errorf("failed to remove comment document: %w", err)
	}

	err = p.repo.IncrementFeedCount(ctx, event.FeedCode, -totalToDelete)
	if err != nil {
		return fmt.Errorf("failed to decrement feed count: %w", err)
	}

	return nil
}

// HandleReplyDeleted pulls the reply out of its parent's list and
// decrements the feed counter by one. When the parent's feedCode cannot
// be resolved the decrement is skipped: the counter drifts low rather
// than erroring.
func (p *Projector) HandleReplyDeleted(ctx context.Context, event events.ReplyDeleted) error {
	err := p.repo.PullReply(ctx, event.CommentCode)
	if err != nil {
		var notFoundErr CommentNotFoundError
		if errors.As(err, &notFoundErr) {
			slog.WarnContext(ctx, "reply delete event references a missing reply",
				"commentCode", event.CommentCode)

			return nil
		}

		return fmt.Errorf("failed to pull reply: %w", err)
	}

	feedCode, err := p.repo.FeedCodeByComment(ctx, event.ParentCommentCode)
	if err != nil {
		var notFoundErr CommentNotFoundError
		if errors.As(err, &notFoundErr) {
			slog.WarnContext(ctx, "skipping feed count decrement, parent comment not found",
				"parentCommentCode", event.ParentCommentCode)

			return nil
		}

		return fmt.Errorf("failed to resolve feed code: %w", err)
	}

	err = p.repo.IncrementFeedCount(ctx, feedCode, -1)
	if err != nil {
		return fmt.Errorf("failed to decrement feed count: %w", err)
	}

	return nil
}

// HandleUserProfileUpdated fans the changed profile fields out into all
// historical documents of that author, root comments and embedded
// replies alike.
func (p *Projector) HandleUserProfileUpdated(ctx context.Context, event events.UserProfileUpdated) error {
	patch := ProfilePatch{
		Nickname: event.Nickname,
		Image:    event.Image,
	}

	if patch.IsZero() {
		return nil
	}

	err := p.repo.UpdateAuthorProfile(ctx, event.UserUUID, patch)
	if err != nil {
		return fmt.Errorf("failed to update author profile fields: %w", err)
	}

	return nil
}
