package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole представляет роль пользователя в системе
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"      // Администратор всей системы
	RoleShopAdmin UserRole = "SHOP_ADMIN" // Администратор одного пункта проката
	RoleUser      UserRole = "USER"       // Обычный пользователь
)

// User - пользователь системы проката
// SHOP_ADMIN обязательно привязан к пункту проката (ShopID NOT NULL)
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Никогда не возвращаем в JSON
	Role         UserRole   `json:"role"`
	ShopID       *uuid.UUID `json:"shop_id,omitempty"` // NULL для ADMIN и обычных пользователей

	// Токен восстановления пароля (действует 1 час)
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Shop *Shop `json:"shop,omitempty"`
}

// IsAdmin проверяет, является ли пользователь администратором системы
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsShopAdmin проверяет, является ли пользователь администратором пункта проката
func (u *User) IsShopAdmin() bool {
	return u.Role == RoleShopAdmin
}

// IsStaff проверяет, имеет ли пользователь доступ к административным операциям
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleShopAdmin
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrInvalidUserData
	}
	if u.Email == "" {
		return ErrInvalidEmail
	}
	if u.Role != RoleAdmin && u.Role != RoleShopAdmin && u.Role != RoleUser {
		return ErrInvalidRole
	}
	// SHOP_ADMIN без привязки к пункту проката не имеет смысла
	if u.Role == RoleShopAdmin && u.ShopID == nil {
		return ErrShopRequired
	}
	return nil
}
