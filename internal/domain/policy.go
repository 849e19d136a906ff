package domain

import "github.com/google/uuid"

// Action - тип действия для политики авторизации
type Action string

const (
	ActionView   Action = "view"
	ActionManage Action = "manage"
)

// Can - единая политика авторизации, консультируется во всех обработчиках
// ADMIN не ограничен; SHOP_ADMIN ограничен ресурсами своего пункта проката;
// USER ограничен собственными бронями и профилем
func Can(u *User, action Action, resource interface{}) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}

	switch res := resource.(type) {
	case *Reservation:
		if u.IsShopAdmin() {
			return u.sameShop(res.ShopID)
		}
		// Обычный пользователь работает только со своими бронями
		return res.UserID == u.ID

	case *Car:
		if u.IsShopAdmin() {
			return u.sameShop(res.ShopID)
		}
		// Просмотр автомобилей доступен всем аутентифицированным пользователям
		return action == ActionView

	case *Maintenance:
		// Окно ТО привязано к автомобилю, проверяем пункт проката через него
		if res.Car != nil && u.IsShopAdmin() {
			return u.sameShop(res.Car.ShopID)
		}
		return action == ActionView && u.IsStaff()

	case *Shop:
		// Пункты проката управляет только ADMIN, просмотр доступен персоналу
		return action == ActionView && u.IsStaff()

	case *User:
		if u.IsShopAdmin() {
			return res.ShopID != nil && u.sameShop(*res.ShopID)
		}
		// Пользователь может работать только со своим профилем
		return res.ID == u.ID
	}

	return false
}

func (u *User) sameShop(shopID uuid.UUID) bool {
	return u.ShopID != nil && *u.ShopID == shopID
}
