package models

import "time"

// Student is the student profile attached to a user.
type Student struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"userId" db:"user_id"`
	RegisterNumber string    `json:"registerNumber" db:"register_number"`
	DepartmentID   *int64    `json:"departmentId,omitempty" db:"department_id"`
	AdmissionYear  int       `json:"admissionYear" db:"admission_year"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`

	// Populated from users on reads
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// InDepartment reports whether the student belongs to departmentID.
func (s *Student) InDepartment(departmentID int64) bool {
	return s.DepartmentID != nil && *s.DepartmentID == departmentID
}

// AdvisorLink is the single advisor of a student.
type AdvisorLink struct {
	StudentID     int64     `json:"studentId" db:"student_id"`
	AdvisorUserID int64     `json:"advisorUserId" db:"advisor_user_id"`
	AssignedAt    time.Time `json:"assignedAt" db:"assigned_at"`
}

// CounsellorLink is the single counsellor of a student.
type CounsellorLink struct {
	StudentID        int64     `json:"studentId" db:"student_id"`
	CounsellorUserID int64     `json:"counsellorUserId" db:"counsellor_user_id"`
	AssignedAt       time.Time `json:"assignedAt" db:"assigned_at"`
}
