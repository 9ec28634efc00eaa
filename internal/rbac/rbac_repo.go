package rbac

// Repository supplies the policy the enforcer is loaded with.
type Repository interface {
	GetRolePermissions() ([]RolePermission, error)
	GetRoleInheritance() ([]RoleInheritance, error)
}

type defaultRepository struct{}

// NewDefaultRepository returns the built-in leave policy: employees manage
// their own requests, managers also review, admins may review any request.
func NewDefaultRepository() Repository {
	return defaultRepository{}
}

func (defaultRepository) GetRolePermissions() ([]RolePermission, error) {
	return []RolePermission{
		{Role: RoleEmployee, Resource: "leave", Action: "create"},
		{Role: RoleEmployee, Resource: "leave", Action: "read"},
		{Role: RoleEmployee, Resource: "leave", Action: "cancel"},
		{Role: RoleEmployee, Resource: "leave_balance", Action: "read"},
		{Role: RoleEmployee, Resource: "leave_calendar", Action: "read"},
		{Role: RoleManager, Resource: "leave", Action: "review"},
		{Role: RoleAdmin, Resource: "leave", Action: "review_any"},
	}, nil
}

func (defaultRepository) GetRoleInheritance() ([]RoleInheritance, error) {
	return []RoleInheritance{
		{Role: RoleManager, Parent: RoleEmployee},
		{Role: RoleAdmin, Parent: RoleManager},
	}, nil
}
