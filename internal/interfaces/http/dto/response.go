package dto

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   map[string]string  `json:"details,omitempty"`
	Fields    []ValidationDetail `json:"fields,omitempty"`
}

// ValidationDetail describes one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewSuccessResponseWithMeta creates a success response with pagination meta
func NewSuccessResponseWithMeta(data interface{}, total int64, page, pageSize int) Response {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response tagged with the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// NewDomainErrorResponse creates an error response carrying the domain
// error's details (room_id, tenant_id and the like)
func NewDomainErrorResponse(code, message, requestID string, details map[string]string) Response {
	resp := NewErrorResponseWithRequestID(code, message, requestID)
	if len(details) > 0 {
		resp.Error.Details = make(map[string]string, len(details))
		for k, v := range details {
			resp.Error.Details[k] = v
		}
	}
	return resp
}

// NewValidationErrorResponse creates a 400 response listing invalid fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Error.Fields = details
	return resp
}

// ListRequest represents common list/pagination request parameters
type ListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1,max=1000000"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// DefaultListRequest returns a list request with defaults
func DefaultListRequest() ListRequest {
	return ListRequest{
		Page:     1,
		PageSize: 20,
	}
}

// Normalize fills unset paging fields with defaults
func (r *ListRequest) Normalize() {
	def := DefaultListRequest()
	if r.Page < 1 {
		r.Page = def.Page
	}
	if r.PageSize < 1 {
		r.PageSize = def.PageSize
	}
}
