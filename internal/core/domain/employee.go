package domain

import "time"

// Employee is the aggregate root for staff records. The attendance ledger is
// embedded because it has no identity of its own.
type Employee struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Position       string    `json:"position"`
	Department     string    `json:"department"`
	Experience     float64   `json:"experience"`
	Salary         float64   `json:"salary"`
	DateOfJoining  time.Time `json:"dateOfJoining"`
	ResumePublicID string    `json:"resumePublicId,omitempty"`
	CandidateID    string    `json:"candidateId,omitempty"`
	Attendance     Ledger    `json:"attendance"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (e *Employee) OwnerID() string { return e.CreatedBy }

// EmployeeSummary is the display projection joined onto leave records.
type EmployeeSummary struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Department string `json:"department"`
}
