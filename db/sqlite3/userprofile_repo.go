package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/lookids/lookids/profiles"
)

const tableUserProfiles = "user_profiles"

type UserProfileRepository struct {
	db *sql.DB
}

var _ profiles.UserProfileRepository = (*UserProfileRepository)(nil)

func NewUserProfileRepository(db *sql.DB) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

const (
	userProfileFieldUserUUID  = "user_uuid"
	userProfileFieldNickname  = "nickname"
	userProfileFieldTag       = "tag"
	userProfileFieldImage     = "image"
	userProfileFieldCreatedAt = "created_at"
)

func userProfileColumns() []string {
	return []string{
		userProfileFieldUserUUID,
		userProfileFieldNickname,
		userProfileFieldTag,
		userProfileFieldImage,
		userProfileFieldCreatedAt,
	}
}

func scanUserProfile(row sq.RowScanner) (*profiles.UserProfile, error) {
	var profile profiles.UserProfile

	err := row.Scan(
		&profile.UserUUID,
		&profile.Nickname,
		&profile.Tag,
		&profile.Image,
		&profile.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &profile, nil
}

func (repo *UserProfileRepository) Insert(ctx context.Context, profile *profiles.UserProfile) error {
	q := sq.Insert(tableUserProfiles).
		Columns(userProfileColumns()...).
		Values(
			profile.UserUUID,
			profile.Nickname,
			profile.Tag,
			profile.Image,
			profile.CreatedAt,
		).
		RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *UserProfileRepository) Update(ctx context.Context, profile *profiles.UserProfile) error {
	q := sq.Update(tableUserProfiles).
		Set(userProfileFieldNickname, profile.Nickname).
		Set(userProfileFieldTag, profile.Tag).
		Set(userProfileFieldImage, profile.Image).
		Where(sq.Eq{userProfileFieldUserUUID: profile.UserUUID}).
		RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	return nil
}

func (repo *UserProfileRepository) FindByUserUUID(ctx context.Context, userUUID string) (*profiles.UserProfile, error) {
	q := sq.Select(userProfileColumns()...).
		From(tableUserProfiles).
		Where(sq.Eq{userProfileFieldUserUUID: userUUID}).
		RunWith(repo.db)

	profile, err := scanUserProfile(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profiles.ProfileNotFoundError{UserUUID: userUUID}
		}

		return nil, fmt.Errorf("failed to query user profile: %w", err)
	}

	return profile, nil
}

func (repo *UserProfileRepository) FindByNicknameAndTag(ctx context.Context, nickname, tag string) (*profiles.UserProfile, error) {
	q := sq.Select(userProfileColumns()...).
		From(tableUserProfiles).
		Where(sq.Eq{
			userProfileFieldNickname: nickname,
			userProfileFieldTag:      tag,
		}).
		RunWith(repo.db)

	profile, err := scanUserProfile(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profiles.ProfileNotFoundError{UserUUID: nickname + "#" + tag}
		}

		return nil, fmt.Errorf("failed to query user profile: %w", err)
	}

	return profile, nil
}

func (repo *UserProfileRepository) ExistsByNicknameAndTag(ctx context.Context, nickname, tag string) (bool, error) {
	q := sq.Select("1").
		From(tableUserProfiles).
		Where(sq.Eq{
			userProfileFieldNickname: nickname,
			userProfileFieldTag:      tag,
		}).
		Limit(1).
		RunWith(repo.db)

	var one int

	err := q.QueryRowContext(ctx).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("failed to query user profile tag: %w", err)
	}

	return true, nil
}
