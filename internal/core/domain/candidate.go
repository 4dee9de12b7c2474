package domain

import "time"

const (
	CandidateStatusNew   = "New"
	CandidateStatusHired = "Hired"
)

// Candidate is an applicant record, the usual precursor to an Employee.
type Candidate struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Position       string    `json:"position"`
	Department     string    `json:"department"`
	Experience     float64   `json:"experience"`
	DateOfJoining  time.Time `json:"dateOfJoining"`
	ResumePublicID string    `json:"resumePublicId"`
	Status         string    `json:"status"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (c *Candidate) OwnerID() string { return c.CreatedBy }

// Hired reports whether the candidate has been converted into an employee.
// A hired candidate no longer owns its resume reference.
func (c *Candidate) Hired() bool { return c.Status == CandidateStatusHired }
