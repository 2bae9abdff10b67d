package rbac

// Role names. Keep these stable; they are part of the token contract.
const (
	RoleViewer   = "viewer"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// DefaultRole is issued when a token request names none.
const DefaultRole = RoleOperator

func IsAdmin(role string) bool { return role == RoleAdmin }

func Valid(role string) bool {
	switch role {
	case RoleViewer, RoleOperator, RoleAdmin:
		return true
	}
	return false
}
