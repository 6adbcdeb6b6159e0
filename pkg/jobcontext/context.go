package jobcontext

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyJobID    KeyContext = "job_id"
	keyFileName KeyContext = "file_name"
	keyStage    KeyContext = "stage"
)

// JobBegin attaches run metadata to ctx. Cancellation of the parent still
// propagates; the pipeline has no timeout of its own.
func JobBegin(parentCtx context.Context, jobID uuid.UUID, fileName string) context.Context {
	ctx := context.WithValue(parentCtx, keyJobID, jobID)
	return context.WithValue(ctx, keyFileName, fileName)
}

// WithStage records the stage currently executing
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, keyStage, stage)
}

// GetJobID extracts job ID from context
func GetJobID(ctx context.Context) (uuid.UUID, bool) {
	jobID, ok := ctx.Value(keyJobID).(uuid.UUID)
	return jobID, ok
}

// GetFileName extracts the uploaded file name from context
func GetFileName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(keyFileName).(string)
	return name, ok
}

// GetStage extracts the current stage from context
func GetStage(ctx context.Context) (string, bool) {
	stage, ok := ctx.Value(keyStage).(string)
	return stage, ok
}

// Fields returns zap fields for whatever metadata ctx carries
func Fields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id, ok := GetJobID(ctx); ok {
		fields = append(fields, zap.String("run_id", id.String()))
	}
	if name, ok := GetFileName(ctx); ok {
		fields = append(fields, zap.String("file_name", name))
	}
	if stage, ok := GetStage(ctx); ok {
		fields = append(fields, zap.String("stage", stage))
	}
	return fields
}
