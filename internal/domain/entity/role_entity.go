package entity

// Role is the authorization role carried on the users table and in access tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// Actor is the verified caller of an operation.
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
