package domain

// DashboardStats - сводные показатели для административной панели
type DashboardStats struct {
	TotalReservations  int `json:"total_reservations"`
	ActiveReservations int `json:"active_reservations"`
	TodayReservations  int `json:"today_reservations"`
	TotalCars          int `json:"total_cars"`
	AvailableCars      int `json:"available_cars"`
	CarsInMaintenance  int `json:"cars_in_maintenance"`
	TotalUsers         int `json:"total_users"`
	NewUsersThisMonth  int `json:"new_users_this_month"`
}

// DayCount - количество броней за день
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// MonthRevenue - выручка за месяц (часы аренды * почасовой тариф)
type MonthRevenue struct {
	Month   string `json:"month"` // YYYY-MM
	Revenue int    `json:"revenue"`
}

// CarUsage - популярность автомобиля по числу броней
type CarUsage struct {
	Name             string `json:"name"`
	ReservationCount int    `json:"reservation_count"`
}

// UsageReport - отчет об использовании парка
type UsageReport struct {
	ReservationsPerDay []DayCount     `json:"reservations_per_day"` // Последние 7 дней
	RevenuePerMonth    []MonthRevenue `json:"revenue_per_month"`    // Последние 6 месяцев
	PopularCars        []CarUsage     `json:"popular_cars"`         // Топ-5
	AverageUsageHours  float64        `json:"average_usage_hours"`
	AverageMileage     float64        `json:"average_mileage"`
}
