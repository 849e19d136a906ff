package postgres

import (
	"context"

	"carfleet/internal/domain"
	"carfleet/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// hourlyRate - почасовой тариф для расчета выручки в отчетах
const hourlyRate = 1000

type statsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	query := `
		SELECT
			(SELECT COUNT(*) FROM reservations),
			(SELECT COUNT(*) FROM reservations WHERE status = 'ACTIVE'),
			(SELECT COUNT(*) FROM reservations WHERE start_time >= date_trunc('day', NOW())),
			(SELECT COUNT(*) FROM cars),
			(SELECT COUNT(*) FROM cars c
			 WHERE NOT EXISTS (
				SELECT 1 FROM reservations
				WHERE car_id = c.id AND status = 'ACTIVE')),
			(SELECT COUNT(*) FROM maintenances WHERE end_time > NOW()),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE created_at >= date_trunc('month', NOW()))
	`

	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalReservations,
		&stats.ActiveReservations,
		&stats.TodayReservations,
		&stats.TotalCars,
		&stats.AvailableCars,
		&stats.CarsInMaintenance,
		&stats.TotalUsers,
		&stats.NewUsersThisMonth,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *statsRepository) Usage(ctx context.Context) (*domain.UsageReport, error) {
	report := &domain.UsageReport{}

	// Брони по дням за последнюю неделю
	rows, err := r.db.Query(ctx, `
		SELECT to_char(start_time, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM reservations
		WHERE start_time >= NOW() - INTERVAL '7 days'
		GROUP BY day
		ORDER BY day
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var dc domain.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		report.ReservationsPerDay = append(report.ReservationsPerDay, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Выручка по месяцам за полгода: часы аренды * почасовой тариф
	rows, err = r.db.Query(ctx, `
		SELECT to_char(start_time, 'YYYY-MM') AS month,
		       COALESCE(SUM(EXTRACT(EPOCH FROM (end_time - start_time)) / 3600 * $1), 0)::int
		FROM reservations
		WHERE start_time >= NOW() - INTERVAL '6 months' AND status = 'COMPLETED'
		GROUP BY month
		ORDER BY month
	`, hourlyRate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var mr domain.MonthRevenue
		if err := rows.Scan(&mr.Month, &mr.Revenue); err != nil {
			return nil, err
		}
		report.RevenuePerMonth = append(report.RevenuePerMonth, mr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Топ-5 популярных автомобилей по числу броней
	rows, err = r.db.Query(ctx, `
		SELECT c.name, COUNT(r.id)
		FROM cars c
		LEFT JOIN reservations r ON r.car_id = c.id
		GROUP BY c.id, c.name
		ORDER BY COUNT(r.id) DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cu domain.CarUsage
		if err := rows.Scan(&cu.Name, &cu.ReservationCount); err != nil {
			return nil, err
		}
		report.PopularCars = append(report.PopularCars, cu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Средняя длительность аренды и средний пробег по завершенным броням
	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE(AVG(EXTRACT(EPOCH FROM (end_time - start_time)) / 3600), 0),
			COALESCE(AVG(end_mileage - start_mileage), 0)
		FROM reservations
		WHERE status = 'COMPLETED'
		  AND start_mileage IS NOT NULL AND end_mileage IS NOT NULL
	`).Scan(&report.AverageUsageHours, &report.AverageMileage)
	if err != nil {
		return nil, err
	}

	return report, nil
}
