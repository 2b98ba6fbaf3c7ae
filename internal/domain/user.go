package domain

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
)

type UserStatus string

const (
	UserActive  UserStatus = "ACTIVE"
	UserPending UserStatus = "PENDING_APPROVAL"
)

type User struct {
	UserID    int64      `json:"userId"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
}
