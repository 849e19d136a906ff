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

type carRepository struct {
	db *pgxpool.Pool
}

func NewCarRepository(db *pgxpool.Pool) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (id, name, model, license_plate, shop_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	car.ID = uuid.New()
	car.CreatedAt = time.Now()
	car.UpdatedAt = time.Now()

	// Нормализуем номер перед сохранением
	car.LicensePlate = domain.NormalizeLicensePlate(car.LicensePlate)

	_, err := r.db.Exec(ctx, query,
		car.ID,
		car.Name,
		car.Model,
		car.LicensePlate,
		car.ShopID,
		car.CreatedAt,
		car.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return domain.ErrCarAlreadyExists
	}

	return err
}

func (r *carRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	query := `
		SELECT id, name, model, license_plate, shop_id, created_at, updated_at
		FROM cars
		WHERE id = $1
	`

	return r.scanCar(r.db.QueryRow(ctx, query, id))
}

func (r *carRepository) GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Car, error) {
	query := `
		SELECT id, name, model, license_plate, shop_id, created_at, updated_at
		FROM cars
		WHERE license_plate = $1
	`

	return r.scanCar(r.db.QueryRow(ctx, query, domain.NormalizeLicensePlate(licensePlate)))
}

func (r *carRepository) Update(ctx context.Context, car *domain.Car) error {
	query := `
		UPDATE cars
		SET name = $2, model = $3, license_plate = $4, shop_id = $5, updated_at = $6
		WHERE id = $1
	`

	car.UpdatedAt = time.Now()
	car.LicensePlate = domain.NormalizeLicensePlate(car.LicensePlate)

	result, err := r.db.Exec(ctx, query,
		car.ID,
		car.Name,
		car.Model,
		car.LicensePlate,
		car.ShopID,
		car.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return domain.ErrCarAlreadyExists
	}
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}

	return nil
}

func (r *carRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}

	return nil
}

func (r *carRepository) List(ctx context.Context, limit, offset int) ([]*domain.Car, error) {
	query := `
		SELECT id, name, model, license_plate, shop_id, created_at, updated_at
		FROM cars
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanCars(rows)
}

func (r *carRepository) ListByShop(ctx context.Context, shopID uuid.UUID, limit, offset int) ([]*domain.Car, error) {
	query := `
		SELECT id, name, model, license_plate, shop_id, created_at, updated_at
		FROM cars
		WHERE shop_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanCars(rows)
}

func (r *carRepository) scanCar(row pgx.Row) (*domain.Car, error) {
	car := &domain.Car{}
	err := row.Scan(
		&car.ID,
		&car.Name,
		&car.Model,
		&car.LicensePlate,
		&car.ShopID,
		&car.CreatedAt,
		&car.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCarNotFound
		}
		return nil, err
	}

	return car, nil
}

func (r *carRepository) scanCars(rows pgx.Rows) ([]*domain.Car, error) {
	var cars []*domain.Car
	for rows.Next() {
		car, err := r.scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}

	return cars, rows.Err()
}
