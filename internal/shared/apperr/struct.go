package apperr

type Kind string

type AppError struct {
	Kind      Kind
	Code      string            // stable machine-readable code, e.g. INVALID_STATUS_TRANSITION
	PublicMsg string            // safe to show to the client
	Fields    map[string]string // per-field validation errors (optional)
	Err       error             // internal cause (logged, never rendered)
}
