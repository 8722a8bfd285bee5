package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// CodedError carries a stable string code that survives to the HTTP surface.
type CodedError struct {
	Code    string
	Message string
}

func (e *CodedError) Error() string {
	return e.Code + ": " + e.Message
}

func NewCodedError(code string, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

var (
	ErrInvalidPeriod      = NewCodedError("INVALID_PERIOD", "period must be in YYYY-MM form")
	ErrFileTooLarge       = NewCodedError("FILE_TOO_LARGE", "uploaded file exceeds the size limit")
	ErrStalePeriod        = NewCodedError("STALE_PERIOD", "uploaded period is older than the active period by two or more months")
	ErrPeriodMismatch     = NewCodedError("PERIOD_MISMATCH", "period detected in the document does not match the uploaded period")
	ErrRosterUnavailable  = NewCodedError("ROSTER_UNAVAILABLE", "employee roster store cannot be reached")
	ErrStorageWriteFailed = NewCodedError("STORAGE_WRITE_FAILED", "could not persist the uploaded file")
	ErrEmailSendFailed    = NewCodedError("EMAIL_SEND_FAILED", "mail transport failed")
)

// CodeOf returns the stable code of err, or "" when err carries none.
func CodeOf(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}
