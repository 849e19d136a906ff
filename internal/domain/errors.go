package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrShopRequired       = errors.New("shop is required for shop admin")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)

// Shop errors
var (
	ErrShopNotFound    = errors.New("shop not found")
	ErrInvalidShopData = errors.New("invalid shop data")
)

// Car errors
var (
	ErrCarNotFound         = errors.New("car not found")
	ErrCarAlreadyExists    = errors.New("car already exists")
	ErrInvalidLicensePlate = errors.New("invalid license plate")
	ErrInvalidCarData      = errors.New("invalid car data")
)

// Reservation errors
var (
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrInvalidReservationData  = errors.New("invalid reservation data")
	ErrInvalidTimeRange        = errors.New("invalid time range")
	ErrTimeSlotConflict        = errors.New("time slot is already taken")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidMileage          = errors.New("invalid mileage")
)

// Maintenance errors
var (
	ErrMaintenanceNotFound    = errors.New("maintenance not found")
	ErrInvalidMaintenanceData = errors.New("invalid maintenance data")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)
