package unodto

// DomainError is a user-facing, recoverable engine error. It is reported to
// the requesting connection only and never mutates room state.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "uno engine error"
}
