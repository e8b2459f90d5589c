package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is a student self-registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required,max=255"`
}

// CreateStaffRequest creates a staff member in a department
type CreateStaffRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	FullName     string `json:"fullName" binding:"required,max=255"`
	Role         string `json:"role" binding:"required,oneof=hod advisor counsellor"`
	DepartmentID int64  `json:"departmentId" binding:"required,gt=0"`
}

// AssignStudentsRequest lists the students of a batch assignment
type AssignStudentsRequest struct {
	StudentIDs []int64 `json:"studentIds" binding:"required,min=1,dive,gt=0"`
}

// AssignDepartmentRequest moves a student into a department
type AssignDepartmentRequest struct {
	DepartmentID int64 `json:"departmentId" binding:"required,gt=0"`
}
