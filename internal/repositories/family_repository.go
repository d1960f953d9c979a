package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/models"
)

type FamilyRepository interface {
	// FindFamilyByID returns nil, nil when no such family exists.
	FindFamilyByID(ctx context.Context, id uuid.UUID) (*models.Family, error)

	DeleteFamily(ctx context.Context, id uuid.UUID) error
}

type familyRepository struct {
	db DB
}

func NewFamilyRepository(db DB) FamilyRepository {
	return &familyRepository{db: db}
}

func (r *familyRepository) FindFamilyByID(ctx context.Context, id uuid.UUID) (*models.Family, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, currency, created_at
		FROM families
		WHERE id = $1
	`, id)

	var f models.Family
	err := row.Scan(&f.ID, &f.Name, &f.Currency, &f.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *familyRepository) DeleteFamily(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM families WHERE id = $1`, id)
	return err
}
