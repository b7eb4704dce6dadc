package errors

// HttpError is the JSON error envelope returned by every failing endpoint.
type HttpError struct {
	Reason string `json:"reason"`
}

func NewHttpError(reason string) HttpError {
	return HttpError{Reason: reason}
}
