package response

// APIResponse is the envelope returned by every HTTP endpoint. Payment
// providers only look at the HTTP status code, but the success flag keeps
// the body self-describing for the frontend and for provider dashboards.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Success: true, Data: data}
}

// OKMsg returns a successful response with a message only.
func OKMsg(msg string) *APIResponse[any] {
	return &APIResponse[any]{Success: true, Message: msg}
}

// ErrorMsg returns a failed response with a message. Internal failures must
// pass a generic message here; details belong in logs, not in the body an
// external provider sees.
func ErrorMsg(msg string) *APIResponse[any] {
	return &APIResponse[any]{Success: false, Message: msg}
}
