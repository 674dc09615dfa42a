package domain

// JobRepository defines the interface for extraction history persistence
type JobRepository interface {
	// Create creates a new job
	Create(job *ExtractionJob) error

	// Update updates an existing job
	Update(job *ExtractionJob) error

	// Delete deletes a job by ID
	Delete(id string) error

	// FindByID finds a job by ID
	FindByID(id string) (*ExtractionJob, error)

	// FindByStatus finds jobs by status
	FindByStatus(status JobStatus) ([]*ExtractionJob, error)

	// FindAll finds all jobs with optional filters, newest first
	FindAll(filters map[string]interface{}) ([]*ExtractionJob, error)

	// Count returns the total number of jobs
	Count() (int64, error)

	// GetStats returns job statistics
	GetStats() (*JobStats, error)
}

// JobStats represents extraction statistics
type JobStats struct {
	Total      int64 `json:"total"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}
