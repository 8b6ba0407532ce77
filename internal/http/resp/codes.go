package resp

// Stable machine-readable codes carried in error and status responses.
const (
	CodeBadRequest    = "bad_request"
	CodeNotFound      = "not_found"
	CodeInternalError = "internal_error"
	CodeQueued        = "queued"
)
