package jobs

import "time"

// Application is a sub-record embedded in its job; it has no identity of
// its own beyond its position in the job's applications array.
type Application struct {
	StudentID    string    `json:"studentId"`
	StudentName  string    `json:"studentName"`
	StudentEmail string    `json:"studentEmail"`
	CoverLetter  string    `json:"coverLetter"`
	Resume       string    `json:"resume,omitempty"`
	AppliedAt    time.Time `json:"appliedAt"`
	Status       Status    `json:"status"`
}

type Job struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Company      string        `json:"company"`
	Location     string        `json:"location"`
	Description  string        `json:"description"`
	Salary       string        `json:"salary,omitempty"`
	Applications []Application `json:"applications"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// StudentApplication is the flattened view a student sees of their own
// applications across all jobs.
type StudentApplication struct {
	JobID       string      `json:"jobId"`
	JobTitle    string      `json:"jobTitle"`
	Company     string      `json:"company"`
	Application Application `json:"application"`
}

type createJobRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Salary      string `json:"salary"`
}

type applyRequest struct {
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
	CoverLetter  string `json:"coverLetter"`
	Resume       string `json:"resume"`
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

type applyResponse struct {
	Message string `json:"message"`
	Job     *Job   `json:"job"`
}
