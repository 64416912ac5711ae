package catalog

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// MessageFetchFailed is the only message a catalog read failure ever exposes.
const MessageFetchFailed = "Failed to fetch vessels"

func fetchFailed() *Error {
	return &Error{Status: 500, Code: "FETCH_FAILED", Message: MessageFetchFailed}
}
