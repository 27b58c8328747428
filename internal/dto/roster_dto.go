package dto

// RoleAssignRequest binds a principal to a ledger role, with an optional
// display record for the metadata store.
type RoleAssignRequest struct {
	Principal string `json:"principal" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=admin professor student"`
	Name      string `json:"name" validate:"max=255"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// ModuleCreateRequest creates a ledger module with display metadata.
type ModuleCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Professor   string `json:"professor"`
}

// ModuleResponse is the ledger module joined with its display record.
type ModuleResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Professor string `json:"professor"`
}

// EnrollRequest enrolls a student principal into a module.
type EnrollRequest struct {
	Student string `json:"student" validate:"required"`
}

// MemberResponse is one module member with the joined display name.
type MemberResponse struct {
	Principal string `json:"principal"`
	Name      string `json:"name"`
}
