package response

import (
	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/service"
)

// LoginResponse is the token plus the profile counters, flattened into
// one object.
type LoginResponse struct {
	Token string `json:"token"`
	service.Profile
}

type Manager struct {
	ID       uint              `json:"id"`
	Email    string            `json:"email"`
	Nickname string            `json:"nickname"`
	Role     *Role             `json:"role,omitempty"`
	Group    *domain.UserGroup `json:"group,omitempty"`
}

type Role struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
}

func BuildRole(r domain.Role) Role {
	caps := r.Capabilities.List()
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = string(c)
	}

	return Role{
		ID:           r.ID,
		Name:         r.Name,
		Capabilities: names,
	}
}

func BuildManager(u domain.User) Manager {
	out := Manager{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Group:    u.Group,
	}
	if u.Role != nil {
		role := BuildRole(*u.Role)
		out.Role = &role
	}

	return out
}

func BuildManagers(users []domain.User) []Manager {
	out := make([]Manager, len(users))
	for i, u := range users {
		out[i] = BuildManager(u)
	}

	return out
}
