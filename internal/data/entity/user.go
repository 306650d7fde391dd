package entity

type RoleName string

const (
	RoleGuest              RoleName = "GUEST"
	RoleGeneralManager     RoleName = "GENERAL_MANAGER"
	RoleEventCoordinator   RoleName = "EVENT_COORDINATOR"
	RoleCateringTeamLeader RoleName = "CATERING_TEAM_LEADER"
	RoleMarketingExecutive RoleName = "MARKETING_EXECUTIVE"
	RoleReceptionist       RoleName = "RECEPTIONIST"
)

func (r RoleName) Valid() bool {
	switch r {
	case RoleGuest, RoleGeneralManager, RoleEventCoordinator,
		RoleCateringTeamLeader, RoleMarketingExecutive, RoleReceptionist:
		return true
	}
	return false
}

type User struct {
	Base
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Phone        *string    `db:"phone"`
	IsActive     bool       `db:"is_active"`
	Roles        []RoleName `db:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) HasRole(role RoleName) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) HasAnyRole(roles ...RoleName) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}
