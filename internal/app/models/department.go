package models

import "time"

// Department is an academic department. HeadStaffID points at the StaffAssignment
// of its current head, if any.
type Department struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Code        string    `json:"code" db:"code"`
	HeadStaffID *int64    `json:"headStaffId,omitempty" db:"head_staff_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// HasHead reports whether a head is recorded.
func (d *Department) HasHead() bool {
	return d.HeadStaffID != nil
}
