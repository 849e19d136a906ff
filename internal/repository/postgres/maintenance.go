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

type maintenanceRepository struct {
	db *pgxpool.Pool
}

func NewMaintenanceRepository(db *pgxpool.Pool) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) Create(ctx context.Context, maintenance *domain.Maintenance) error {
	query := `
		INSERT INTO maintenances (id, car_id, start_time, end_time, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	maintenance.ID = uuid.New()
	maintenance.CreatedAt = time.Now()
	maintenance.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		maintenance.ID,
		maintenance.CarID,
		maintenance.StartTime,
		maintenance.EndTime,
		maintenance.Description,
		maintenance.CreatedAt,
		maintenance.UpdatedAt,
	)

	return err
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	query := `
		SELECT id, car_id, start_time, end_time, description, created_at, updated_at
		FROM maintenances
		WHERE id = $1
	`

	m := &domain.Maintenance{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.CarID,
		&m.StartTime,
		&m.EndTime,
		&m.Description,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMaintenanceNotFound
		}
		return nil, err
	}

	return m, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, maintenance *domain.Maintenance) error {
	query := `
		UPDATE maintenances
		SET car_id = $2, start_time = $3, end_time = $4, description = $5, updated_at = $6
		WHERE id = $1
	`

	maintenance.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		maintenance.ID,
		maintenance.CarID,
		maintenance.StartTime,
		maintenance.EndTime,
		maintenance.Description,
		maintenance.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrMaintenanceNotFound
	}

	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM maintenances WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrMaintenanceNotFound
	}

	return nil
}

func (r *maintenanceRepository) List(ctx context.Context, shopID *uuid.UUID, limit, offset int) ([]*domain.Maintenance, error) {
	query := `
		SELECT m.id, m.car_id, m.start_time, m.end_time, m.description, m.created_at, m.updated_at,
		       c.id, c.name, c.model, c.license_plate, c.shop_id, c.created_at, c.updated_at
		FROM maintenances m
		INNER JOIN cars c ON c.id = m.car_id
		WHERE $1::uuid IS NULL OR c.shop_id = $1
		ORDER BY m.start_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maintenances []*domain.Maintenance
	for rows.Next() {
		m := &domain.Maintenance{Car: &domain.Car{}}
		err := rows.Scan(
			&m.ID, &m.CarID, &m.StartTime, &m.EndTime, &m.Description, &m.CreatedAt, &m.UpdatedAt,
			&m.Car.ID, &m.Car.Name, &m.Car.Model, &m.Car.LicensePlate, &m.Car.ShopID,
			&m.Car.CreatedAt, &m.Car.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		maintenances = append(maintenances, m)
	}

	return maintenances, rows.Err()
}

func (r *maintenanceRepository) ListByCar(ctx context.Context, carID uuid.UUID) ([]*domain.Maintenance, error) {
	query := `
		SELECT id, car_id, start_time, end_time, description, created_at, updated_at
		FROM maintenances
		WHERE car_id = $1
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maintenances []*domain.Maintenance
	for rows.Next() {
		m := &domain.Maintenance{}
		err := rows.Scan(
			&m.ID,
			&m.CarID,
			&m.StartTime,
			&m.EndTime,
			&m.Description,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		maintenances = append(maintenances, m)
	}

	return maintenances, rows.Err()
}

func (r *maintenanceRepository) HasConflict(ctx context.Context, carID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	// Окно ТО не должно пересекаться с неотмененными бронями,
	// а также с другими окнами ТО того же автомобиля
	var conflicts int
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*)
			 FROM reservations
			 WHERE car_id = $1 AND status != 'CANCELLED'
			   AND start_time < $3 AND end_time > $2)
			+
			(SELECT COUNT(*)
			 FROM maintenances
			 WHERE car_id = $1
			   AND start_time < $3 AND end_time > $2
			   AND ($4::uuid IS NULL OR id != $4))
	`, carID, start, end, excludeID).Scan(&conflicts)
	if err != nil {
		return false, err
	}

	return conflicts > 0, nil
}
