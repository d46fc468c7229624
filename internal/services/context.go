package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	stepKey   contextKey = "step"
	outputKey contextKey = "output"
)

// WithRunID annotates context with the assembly run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the assembly run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStep annotates context with the pipeline step name.
func WithStep(ctx context.Context, step string) context.Context {
	if step == "" {
		return ctx
	}
	return context.WithValue(ctx, stepKey, step)
}

// StepFromContext returns the step name if present.
func StepFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stepKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithOutput annotates context with the final output path of the run.
func WithOutput(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, outputKey, path)
}

// OutputFromContext returns the output path if present.
func OutputFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(outputKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
