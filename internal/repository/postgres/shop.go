package postgres

import (
	"context"
	"errors"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type shopRepository struct {
	db *pgxpool.Pool
}

func NewShopRepository(db *pgxpool.Pool) repository.ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	query := `
		INSERT INTO shops (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	shop.ID = uuid.New()
	shop.CreatedAt = time.Now()
	shop.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		shop.ID,
		shop.Name,
		shop.Address,
		shop.CreatedAt,
		shop.UpdatedAt,
	)

	return err
}

func (r *shopRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM shops
		WHERE id = $1
	`

	shop := &domain.Shop{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&shop.ID,
		&shop.Name,
		&shop.Address,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShopNotFound
		}
		return nil, err
	}

	return shop, nil
}

func (r *shopRepository) Update(ctx context.Context, shop *domain.Shop) error {
	query := `
		UPDATE shops
		SET name = $2, address = $3, updated_at = $4
		WHERE id = $1
	`

	shop.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query, shop.ID, shop.Name, shop.Address, shop.UpdatedAt)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrShopNotFound
	}

	return nil
}

func (r *shopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrShopNotFound
	}

	return nil
}

func (r *shopRepository) List(ctx context.Context, limit, offset int) ([]*domain.Shop, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM shops
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []*domain.Shop
	for rows.Next() {
		shop := &domain.Shop{}
		err := rows.Scan(
			&shop.ID,
			&shop.Name,
			&shop.Address,
			&shop.CreatedAt,
			&shop.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}

	return shops, rows.Err()
}
