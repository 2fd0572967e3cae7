package transport

// Envelope wraps every API response. Failures carry the domain error code so
// clients can branch on Code without parsing Error.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// ListMeta accompanies collection responses.
type ListMeta struct {
	Count  int    `json:"count"`
	Status string `json:"status_filter,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewList returns a success envelope for a collection with its count.
func NewList(data interface{}, count int, statusFilter string) Envelope {
	return NewSuccess(data, ListMeta{Count: count, Status: statusFilter})
}

// NewError returns an error envelope; meta is optional.
func NewError(code, message string, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  message,
		Meta:   meta,
	}
}
