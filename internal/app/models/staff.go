package models

import "time"

// StaffAssignment binds a staff user to one department and one staff role.
type StaffAssignment struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"userId" db:"user_id"`
	DepartmentID int64     `json:"departmentId" db:"department_id"`
	Role         Role      `json:"role" db:"role"`
	CreatedBy    *int64    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// StaffMember is a StaffAssignment joined with its user and department names.
type StaffMember struct {
	StaffAssignment
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	DepartmentName string `json:"departmentName"`
}

// StaffFilter narrows a staff listing. Zero values mean no restriction.
type StaffFilter struct {
	DepartmentID *int64
	Roles        []Role
}
