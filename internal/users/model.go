package users

import "time"

const (
	RoleOwner      = "owner"
	RoleManager    = "manager"
	RoleAccountant = "accountant"
	RoleCashier    = "cashier"
)

func ValidRole(r string) bool {
	switch r {
	case RoleOwner, RoleManager, RoleAccountant, RoleCashier:
		return true
	}
	return false
}

// CanManage reports whether the role may create/edit catalog entities
// (accounts, categories, payment methods, locations).
func CanManage(role string) bool {
	return role == RoleOwner || role == RoleManager
}

type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   *string   `json:"username,omitempty"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
