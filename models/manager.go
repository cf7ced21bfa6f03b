package models

import "time"

// StaffRole is the privilege level carried in auth tokens.
type StaffRole string

const (
	RoleAdmin   StaffRole = "admin"
	RoleManager StaffRole = "manager"
	RoleTeam    StaffRole = "team"
)

// Manager is a staff account. Admins create managers and delegate tournaments
// to them; the password hash is bcrypt. The hash field must marshal because
// the managers collection is persisted as a JSON document; handlers expose
// the Public view instead.
type Manager struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"password_hash"`
	Role         StaffRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicManager is the wire view of a Manager without credentials.
type PublicManager struct {
	ID          string    `json:"id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
	Role        StaffRole `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m Manager) Public() PublicManager {
	return PublicManager{
		ID:          m.ID,
		Login:       m.Login,
		DisplayName: m.DisplayName,
		Role:        m.Role,
		CreatedAt:   m.CreatedAt,
	}
}
