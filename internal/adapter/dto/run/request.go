package run

// CreateRunQuery holds query options for POST /v1/runs
type CreateRunQuery struct {
	// Wait blocks the request until the run is finished
	Wait bool `query:"wait"`
}

// GetRunRequest identifies a run in the path
type GetRunRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}
