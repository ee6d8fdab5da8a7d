package usecase

// Denial and failure codes surfaced to callers. Domain codes are final
// outcomes and are never retried; CONFLICT is retried internally before
// it ever reaches a caller.
const (
	CodeNoOp              = "NO_OP"
	CodeTerminalState     = "TERMINAL_STATE"
	CodePermissionDenied  = "PERMISSION_DENIED"
	CodeIllegalTransition = "ILLEGAL_TRANSITION"
	CodeConflict          = "CONFLICT"
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// DomainCode extracts the code of a DomainError, or "" for any other error.
func DomainCode(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
