package run

import "time"

// RunResponse is the snapshot of one pipeline run
type RunResponse struct {
	ID          string            `json:"id"`
	FileName    string            `json:"file_name"`
	State       string            `json:"state"`
	Done        bool              `json:"done"`
	Step        int               `json:"step"`
	TotalSteps  int               `json:"total_steps"`
	Location    string            `json:"location,omitempty"`
	Segments    []string          `json:"segments"`
	Transcript  string            `json:"transcript"`
	Summary     string            `json:"summary"`
	Elapsed     string            `json:"elapsed,omitempty"`
	Error       *RunErrorResponse `json:"error,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// RunErrorResponse describes the stage a run failed in
type RunErrorResponse struct {
	Stage   string `json:"stage"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
