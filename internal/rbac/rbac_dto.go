package rbac

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

type RolePermission struct {
	Role     string
	Resource string
	Action   string
}

// RoleInheritance grants Role every permission of Parent.
type RoleInheritance struct {
	Role   string
	Parent string
}
