package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/lookids/lookids/favorites"
)

const tableFavorites = "favorites"

type FavoriteRepository struct {
	db *sql.DB
}

var _ favorites.FavoriteRepository = (*FavoriteRepository)(nil)

func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

const (
	favoriteFieldUserUUID  = "user_uuid"
	favoriteFieldFeedCode  = "feed_code"
	favoriteFieldActive    = "active"
	favoriteFieldUpdatedAt = "updated_at"
)

func favoriteColumns() []string {
	return []string{
		favoriteFieldUserUUID,
		favoriteFieldFeedCode,
		favoriteFieldActive,
		favoriteFieldUpdatedAt,
	}
}

func scanFavorite(row sq.RowScanner) (*favorites.Favorite, error) {
	var favorite favorites.Favorite

	err := row.Scan(
		&favorite.UserUUID,
		&favorite.FeedCode,
		&favorite.Active,
		&favorite.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &favorite, nil
}

func (repo *FavoriteRepository) Upsert(ctx context.Context, favorite *favorites.Favorite) error {
	q := sq.Insert(tableFavorites).
		Columns(favoriteColumns()...).
		Values(
			favorite.UserUUID,
			favorite.FeedCode,
			favorite.Active,
			favorite.UpdatedAt,
		).
		Suffix("ON CONFLICT (user_uuid, feed_code) DO UPDATE SET active = excluded.active, updated_at = excluded.updated_at").
		RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec upsert: %w", err)
	}

	return nil
}

func (repo *FavoriteRepository) FindByUserAndFeed(ctx context.Context, userUUID, feedCode string) (*favorites.Favorite, error) {
	q := sq.Select(favoriteColumns()...).
		From(tableFavorites).
		Where(sq.Eq{
			favoriteFieldUserUUID: userUUID,
			favoriteFieldFeedCode: feedCode,
		}).
		RunWith(repo.db)

	favorite, err := scanFavorite(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, favorites.FavoriteNotFoundError{UserUUID: userUUID, FeedCode: feedCode}
		}

		return nil, fmt.Errorf("failed to query favorite: %w", err)
	}

	return favorite, nil
}

func (repo *FavoriteRepository) ListActiveByUser(ctx context.Context, userUUID string) ([]*favorites.Favorite, error) {
	q := sq.Select(favoriteColumns()...).
		From(tableFavorites).
		Where(sq.Eq{
			favoriteFieldUserUUID: userUUID,
			favoriteFieldActive:   true,
		}).
		OrderBy(favoriteFieldUpdatedAt + " DESC").
		RunWith(repo.db)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	items := make([]*favorites.Favorite, 0)

	for rows.Next() {
		favorite, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favorite failed: %w", err)
		}

		items = append(items, favorite)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return items, nil
}
