package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lookids/lookids/commentread"
	"github.com/lookids/lookids/pagination"
)

const (
	collComments   = "comments_read"
	collFeedCounts = "feed_counts"
)

const (
	docFieldCommentCode   = "commentCode"
	docFieldFeedCode      = "feedCode"
	docFieldUserUUID      = "userUuid"
	docFieldCreatedAt     = "createdAt"
	docFieldReplyCount    = "replyCount"
	docFieldReplyList     = "replyList"
	docFieldTotalComments = "totalCommentCount"
)

// CommentReadRepository stores one document per root comment with its
// replies embedded, plus one aggregate document per feed. Counter
// updates go through $inc so concurrent projections cannot lose updates.
type CommentReadRepository struct {
	comments   *mongo.Collection
	feedCounts *mongo.Collection
}

var _ commentread.Repository = (*CommentReadRepository)(nil)

func NewCommentReadRepository(db *mongo.Database) *CommentReadRepository {
	return &CommentReadRepository{
		comments:   db.Collection(collComments),
		feedCounts: db.Collection(collFeedCounts),
	}
}

func (repo *CommentReadRepository) InsertComment(ctx context.Context, comment *commentread.CommentForRead) error {
	_, err := repo.comments.InsertOne(ctx, comment)
	if err != nil {
		return fmt.Errorf("failed to insert comment document: %w", err)
	}

	return nil
}

func (repo *CommentReadRepository) FindByCommentCode(ctx context.Context, commentCode string) (*commentread.CommentForRead, error) {
	var comment commentread.CommentForRead

	err := repo.comments.FindOne(ctx, bson.M{docFieldCommentCode: commentCode}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, commentread.CommentNotFoundError{CommentCode: commentCode}
		}

		return nil, fmt.Errorf("failed to query comment document: %w", err)
	}

	return &comment, nil
}

func (repo *CommentReadRepository) ListByFeed(ctx context.Context, feedCode string, page, size int) ([]*commentread.CommentForRead, int64, error) {
	filter := bson.M{docFieldFeedCode: feedCode}

	total, err := repo.comments.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count comment documents: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: docFieldCreatedAt, Value: -1}}).
		SetSkip(int64(pagination.Offset(page, size))).
		SetLimit(int64(size))

	cursor, err := repo.comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query comment documents: %w", err)
	}

	var items []*commentread.CommentForRead

	err = cursor.All(ctx, &items)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode comment documents: %w", err)
	}

	return items, total, nil
}

func (repo *CommentReadRepository) AppendReply(ctx context.Context, parentCommentCode string, reply *commentread.ReplyForRead) error {
	update := bson.M{
		"$push": bson.M{docFieldReplyList: reply},
		"$inc":  bson.M{docFieldReplyCount: 1},
	}

	res, err := repo.comments.UpdateOne(ctx, bson.M{docFieldCommentCode: parentCommentCode}, update)
	if err != nil {
		return fmt.Errorf("failed to push reply: %w", err)
	}

	if res.MatchedCount == 0 {
		return commentread.CommentNotFoundError{CommentCode: parentCommentCode}
	}

	return nil
}

func (repo *CommentReadRepository) PullReply(ctx context.Context, replyCommentCode string) error {
	filter := bson.M{docFieldReplyList + "." + docFieldCommentCode: replyCommentCode}
	update := bson.M{
		"$pull": bson.M{docFieldReplyList: bson.M{docFieldCommentCode: replyCommentCode}},
		"$inc":  bson.M{docFieldReplyCount: -1},
	}

	res, err := repo.comments.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to pull reply: %w", err)
	}

	if res.MatchedCount == 0 {
		return commentread.CommentNotFoundError{CommentCode: replyCommentCode}
	}

	return nil
}

func (repo *CommentReadRepository) RemoveComment(ctx context.Context, commentCode string) error {
	_, err := repo.comments.DeleteOne(ctx, bson.M{docFieldCommentCode: commentCode})
	if err != nil {
		return fmt.Errorf("failed to delete comment document: %w", err)
	}

	return nil
}

func (repo *CommentReadRepository) FeedCodeByComment(ctx context.Context, commentCode string) (string, error) {
	var comment commentread.CommentForRead

	opts := options.FindOne().SetProjection(bson.M{docFieldFeedCode: 1})

	err := repo.comments.FindOne(ctx, bson.M{docFieldCommentCode: commentCode}, opts).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", commentread.CommentNotFoundError{CommentCode: commentCode}
		}

		return "", fmt.Errorf("failed to query comment document: %w", err)
	}

	return comment.FeedCode, nil
}

func (repo *CommentReadRepository) IncrementFeedCount(ctx context.Context, feedCode string, delta int64) error {
	filter := bson.M{docFieldFeedCode: feedCode}
	update := bson.M{"$inc": bson.M{docFieldTotalComments: delta}}

	_, err := repo.feedCounts.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to increment feed count: %w", err)
	}

	return nil
}

func (repo *CommentReadRepository) SetFeedCount(ctx context.Context, feedCode string, total int64) error {
	filter := bson.M{docFieldFeedCode: feedCode}
	update := bson.M{"$set": bson.M{docFieldTotalComments: total}}

	_, err := repo.feedCounts.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set feed count: %w", err)
	}

	return nil
}

func (repo *CommentReadRepository) FindFeedCount(ctx context.Context, feedCode string) (*commentread.FeedCount, error) {
	var count commentread.FeedCount

	err := repo.feedCounts.FindOne(ctx, bson.M{docFieldFeedCode: feedCode}).Decode(&count)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, commentread.FeedCountNotFoundError{FeedCode: feedCode}
		}

		return nil, fmt.Errorf("failed to query feed count: %w", err)
	}

	return &count, nil
}

// UpdateAuthorProfile patches the denormalized author fields everywhere
// the user appears: once across root comment documents, once across
// embedded reply entries via an array filter.
func (repo *CommentReadRepository) UpdateAuthorProfile(ctx context.Context, userUUID string, patch commentread.ProfilePatch) error {
	set := bson.M{}

	if patch.Nickname != "" {
		set["nickname"] = patch.Nickname
	}

	if patch.Image != "" {
		set["image"] = patch.Image
	}

	if len(set) == 0 {
		return nil
	}

	_, err := repo.comments.UpdateMany(ctx, bson.M{docFieldUserUUID: userUUID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update root comment authors: %w", err)
	}

	elemSet := bson.M{}
	for field, value := range set {
		elemSet[docFieldReplyList+".$[elem]."+field] = value
	}

	opts := options.UpdateMany().SetArrayFilters([]interface{}{
		bson.M{"elem." + docFieldUserUUID: userUUID},
	})

	replyFilter := bson.M{docFieldReplyList + "." + docFieldUserUUID: userUUID}

	_, err = repo.comments.UpdateMany(ctx, replyFilter, bson.M{"$set": elemSet}, opts)
	if err != nil {
		return fmt.Errorf("failed to update embedded reply authors: %w", err)
	}

	return nil
}
