package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/lookids/lookids/comments"
	"github.com/lookids/lookids/pagination"
)

const tableComments = "comments"

type CommentRepository struct {
	db *sql.DB
}

var _ comments.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const (
	commentFieldCommentCode       = "comment_code"
	commentFieldFeedCode          = "feed_code"
	commentFieldFeedUUID          = "feed_uuid"
	commentFieldUserUUID          = "user_uuid"
	commentFieldContent           = "content"
	commentFieldParentCommentCode = "parent_comment_code"
	commentFieldStatus            = "status"
	commentFieldCreatedAt         = "created_at"
)

func commentColumns() []string {
	return []string{
		commentFieldCommentCode,
		commentFieldFeedCode,
		commentFieldFeedUUID,
		commentFieldUserUUID,
		commentFieldContent,
		commentFieldParentCommentCode,
		commentFieldStatus,
		commentFieldCreatedAt,
	}
}

func scanComment(row sq.RowScanner) (*comments.Comment, error) {
	var comment comments.Comment

	err := row.Scan(
		&comment.CommentCode,
		&comment.FeedCode,
		&comment.FeedUUID,
		&comment.UserUUID,
		&comment.Content,
		&comment.ParentCommentCode,
		&comment.Status,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &comment, nil
}

func (repo *CommentRepository) Insert(ctx context.Context, comment *comments.Comment) error {
	q := sq.Insert(tableComments).
		Columns(commentColumns()...).
		Values(
			comment.CommentCode,
			comment.FeedCode,
			comment.FeedUUID,
			comment.UserUUID,
			comment.Content,
			comment.ParentCommentCode,
			comment.Status,
			comment.CreatedAt,
		)

	q = q.RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *CommentRepository) ExistsByCode(ctx context.Context, commentCode string) (bool, error) {
	q := sq.Select("1").
		From(tableComments).
		Where(sq.Eq{commentFieldCommentCode: commentCode}).
		Limit(1).
		RunWith(repo.db)

	var one int

	err := q.QueryRowContext(ctx).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("failed to query comment code: %w", err)
	}

	return true, nil
}

func (repo *CommentRepository) FindActiveByCodeAndUser(ctx context.Context, commentCode, userUUID string) (*comments.Comment, error) {
	q := sq.Select(commentColumns()...).
		From(tableComments).
		Where(sq.Eq{
			commentFieldCommentCode: commentCode,
			commentFieldUserUUID:    userUUID,
			commentFieldStatus:      comments.StatusActive,
		}).
		RunWith(repo.db)

	comment, err := scanComment(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, comments.CommentNotFoundError{CommentCode: commentCode}
		}

		return nil, fmt.Errorf("failed to query comment: %w", err)
	}

	return comment, nil
}

func (repo *CommentRepository) SoftDelete(ctx context.Context, commentCode string) error {
	q := sq.Update(tableComments).
		Set(commentFieldStatus, comments.StatusDeleted).
		Where(sq.Or{
			sq.Eq{commentFieldCommentCode: commentCode},
			sq.Eq{commentFieldParentCommentCode: commentCode},
		}).
		RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec soft delete: %w", err)
	}

	return nil
}

func (repo *CommentRepository) ListActive(ctx context.Context, params *comments.ListActiveParams) ([]*comments.Comment, int64, error) {
	where := sq.Eq{commentFieldStatus: comments.StatusActive}

	if params.FeedCode != "" {
		where[commentFieldFeedCode] = params.FeedCode
		where[commentFieldParentCommentCode] = ""
	}

	if params.ParentCommentCode != "" {
		where[commentFieldParentCommentCode] = params.ParentCommentCode
	}

	var total int64

	countQuery := sq.Select("COUNT(*)").
		From(tableComments).
		Where(where).
		RunWith(repo.db)

	err := countQuery.QueryRowContext(ctx).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := sq.Select(commentColumns()...).
		From(tableComments).
		Where(where).
		OrderBy(commentFieldCreatedAt + " DESC").
		Limit(uint64(params.Size)).
		Offset(uint64(pagination.Offset(params.Page, params.Size))).
		RunWith(repo.db)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("query failed: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	items := make([]*comments.Comment, 0)

	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment failed: %w", err)
		}

		items = append(items, comment)
	}

	err = rows.Err()
	if err != nil {
		return nil, 0, fmt.Errorf("rows iteration failed: %w", err)
	}

	return items, total, nil
}

func (repo *CommentRepository) CountActiveByFeed(ctx context.Context, feedCode string) (int64, error) {
	q := sq.Select("COUNT(*)").
		From(tableComments).
		Where(sq.Eq{
			commentFieldFeedCode: feedCode,
			commentFieldStatus:   comments.StatusActive,
		}).
		RunWith(repo.db)

	var total int64

	err := q.QueryRowContext(ctx).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count active comments: %w", err)
	}

	return total, nil
}
