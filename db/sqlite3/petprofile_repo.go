package sqlite3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/lookids/lookids/profiles"
)

const tablePetProfiles = "pet_profiles"

type PetProfileRepository struct {
	db *sql.DB
}

var _ profiles.PetProfileRepository = (*PetProfileRepository)(nil)

func NewPetProfileRepository(db *sql.DB) *PetProfileRepository {
	return &PetProfileRepository{db: db}
}

const (
	petProfileFieldPetCode   = "pet_code"
	petProfileFieldUserUUID  = "user_uuid"
	petProfileFieldName      = "name"
	petProfileFieldBreed     = "breed"
	petProfileFieldImage     = "image"
	petProfileFieldWeight    = "weight"
	petProfileFieldCreatedAt = "created_at"
)

func petProfileColumns() []string {
	return []string{
		petProfileFieldPetCode,
		petProfileFieldUserUUID,
		petProfileFieldName,
		petProfileFieldBreed,
		petProfileFieldImage,
		petProfileFieldWeight,
		petProfileFieldCreatedAt,
	}
}

func scanPetProfile(row sq.RowScanner) (*profiles.PetProfile, error) {
	var profile profiles.PetProfile

	err := row.Scan(
		&profile.PetCode,
		&profile.UserUUID,
		&profile.Name,
		&profile.Breed,
		&profile.Image,
		&profile.Weight,
		&profile.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &profile, nil
}

func (repo *PetProfileRepository) Insert(ctx context.Context, profile *profiles.PetProfile) error {
	q := sq.Insert(tablePetProfiles).
		Columns(petProfileColumns()...).
		Values(
			profile.PetCode,
			profile.UserUUID,
			profile.Name,
			profile.Breed,
			profile.Image,
			profile.Weight,
			profile.CreatedAt,
		).
		RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *PetProfileRepository) Update(ctx context.Context, profile *profiles.PetProfile) error {
	q := sq.Update(tablePetProfiles).
		Set(petProfileFieldName, profile.Name).
		Set(petProfileFieldBreed, profile.Breed).
		Set(petProfileFieldImage, profile.Image).
		Set(petProfileFieldWeight, profile.Weight).
		Where(sq.Eq{petProfileFieldPetCode: profile.PetCode}).
		RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	return nil
}

func (repo *PetProfileRepository) FindByPetCode(ctx context.Context, petCode string) (*profiles.PetProfile, error) {
	q := sq.Select(petProfileColumns()...).
		From(tablePetProfiles).
		Where(sq.Eq{petProfileFieldPetCode: petCode}).
		RunWith(repo.db)

	profile, err := scanPetProfile(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profiles.PetNotFoundError{PetCode: petCode}
		}

		return nil, fmt.Errorf("failed to query pet profile: %w", err)
	}

	return profile, nil
}

func (repo *PetProfileRepository) ListByUserUUID(ctx context.Context, userUUID string) ([]*profiles.PetProfile, error) {
	q := sq.Select(petProfileColumns()...).
		From(tablePetProfiles).
		Where(sq.Eq{petProfileFieldUserUUID: userUUID}).
		OrderBy(petProfileFieldCreatedAt + " ASC").
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

	items := make([]*profiles.PetProfile, 0)

	for rows.Next() {
		profile, err := scanPetProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pet profile failed: %w", err)
		}

		items = append(items, profile)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return items, nil
}

func (repo *PetProfileRepository) DeleteByPetCode(ctx context.Context, petCode string) error {
	q := sq.Delete(tablePetProfiles).
		Where(sq.Eq{petProfileFieldPetCode: petCode}).
		RunWith(repo.db)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec delete: %w", err)
	}

	return nil
}
