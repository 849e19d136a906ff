package postgres

import (
	"context"
	"errors"
	"time"

	"carfleet/internal/domain"
	"carfleet/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reservationColumns = `id, car_id, user_id, shop_id, start_time, end_time, status, start_mileage, end_mileage, created_at, updated_at`

type reservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

// CreateChecked создает бронь, проверяя конфликты в одной транзакции.
// Строка автомобиля блокируется через SELECT FOR UPDATE, поэтому два
// одновременных запроса на один слот не могут пройти проверку оба
func (r *reservationRepository) CreateChecked(ctx context.Context, reservation *domain.Reservation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.checkConflicts(ctx, tx, reservation.CarID, reservation.StartTime, reservation.EndTime, nil); err != nil {
		return err
	}

	query := `
		INSERT INTO reservations (id, car_id, user_id, shop_id, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	reservation.ID = uuid.New()
	reservation.CreatedAt = time.Now()
	reservation.UpdatedAt = time.Now()

	_, err = tx.Exec(ctx, query,
		reservation.ID,
		reservation.CarID,
		reservation.UserID,
		reservation.ShopID,
		reservation.StartTime,
		reservation.EndTime,
		reservation.Status,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateChecked обновляет бронь с транзакционной проверкой конфликтов,
// исключая из проверки саму бронь
func (r *reservationRepository) UpdateChecked(ctx context.Context, reservation *domain.Reservation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	excludeID := reservation.ID
	if err := r.checkConflicts(ctx, tx, reservation.CarID, reservation.StartTime, reservation.EndTime, &excludeID); err != nil {
		return err
	}

	if err := r.update(ctx, tx, reservation); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *reservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	return r.update(ctx, r.db, reservation)
}

// execer покрывает pgxpool.Pool и pgx.Tx
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.scanReservation(r.db.QueryRow(ctx, query, id))
}

func (r *reservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}

	return nil
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE user_id = $1
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

func (r *reservationRepository) ListForDay(ctx context.Context, day time.Time, shopID *uuid.UUID) ([]*domain.Reservation, error) {
	dayStart := domain.DayStart(day)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT r.id, r.car_id, r.user_id, r.shop_id, r.start_time, r.end_time, r.status,
		       r.start_mileage, r.end_mileage, r.created_at, r.updated_at,
		       c.id, c.name, c.model, c.license_plate, c.shop_id, c.created_at, c.updated_at,
		       u.id, u.name, u.email, u.role, u.shop_id, u.created_at, u.updated_at
		FROM reservations r
		INNER JOIN cars c ON c.id = r.car_id
		INNER JOIN users u ON u.id = r.user_id
		WHERE r.start_time < $2 AND r.end_time > $1
		  AND ($3::uuid IS NULL OR r.shop_id = $3)
		ORDER BY r.start_time
	`

	rows, err := r.db.Query(ctx, query, dayStart, dayEnd, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		res := &domain.Reservation{Car: &domain.Car{}, User: &domain.User{}}
		err := rows.Scan(
			&res.ID, &res.CarID, &res.UserID, &res.ShopID, &res.StartTime, &res.EndTime, &res.Status,
			&res.StartMileage, &res.EndMileage, &res.CreatedAt, &res.UpdatedAt,
			&res.Car.ID, &res.Car.Name, &res.Car.Model, &res.Car.LicensePlate, &res.Car.ShopID,
			&res.Car.CreatedAt, &res.Car.UpdatedAt,
			&res.User.ID, &res.User.Name, &res.User.Email, &res.User.Role, &res.User.ShopID,
			&res.User.CreatedAt, &res.User.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) ListBlockingByCar(ctx context.Context, carID uuid.UUID) ([]*domain.Reservation, error) {
	// Отмененные брони не участвуют в проверке конфликтов
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE car_id = $1 AND status != 'CANCELLED'
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// checkConflicts проверяет пересечение интервала [start, end) с неотмененными
// бронями и окнами ТО автомобиля. Вызывается внутри транзакции
func (r *reservationRepository) checkConflicts(ctx context.Context, tx pgx.Tx, carID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	// Блокируем строку автомобиля на время проверки
	var lockedID uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM cars WHERE id = $1 FOR UPDATE`, carID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCarNotFound
		}
		return err
	}

	// Полуоткрытые интервалы: [s1,e1) и [s2,e2) пересекаются при s1 < e2 AND s2 < e1
	var conflicts int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM reservations
		WHERE car_id = $1
		  AND status != 'CANCELLED'
		  AND start_time < $3 AND end_time > $2
		  AND ($4::uuid IS NULL OR id != $4)
	`, carID, start, end, excludeID).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return domain.ErrTimeSlotConflict
	}

	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM maintenances
		WHERE car_id = $1
		  AND start_time < $3 AND end_time > $2
	`, carID, start, end).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return domain.ErrTimeSlotConflict
	}

	return nil
}

func (r *reservationRepository) update(ctx context.Context, db execer, reservation *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET car_id = $2, user_id = $3, shop_id = $4, start_time = $5, end_time = $6,
		    status = $7, start_mileage = $8, end_mileage = $9, updated_at = $10
		WHERE id = $1
	`

	reservation.UpdatedAt = time.Now()

	result, err := db.Exec(ctx, query,
		reservation.ID,
		reservation.CarID,
		reservation.UserID,
		reservation.ShopID,
		reservation.StartTime,
		reservation.EndTime,
		reservation.Status,
		reservation.StartMileage,
		reservation.EndMileage,
		reservation.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}

	return nil
}

func (r *reservationRepository) scanReservation(row pgx.Row) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := row.Scan(
		&res.ID,
		&res.CarID,
		&res.UserID,
		&res.ShopID,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&res.StartMileage,
		&res.EndMileage,
		&res.CreatedAt,
		&res.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}

	return res, nil
}

func (r *reservationRepository) scanReservations(rows pgx.Rows) ([]*domain.Reservation, error) {
	var reservations []*domain.Reservation
	for rows.Next() {
		res, err := r.scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}
