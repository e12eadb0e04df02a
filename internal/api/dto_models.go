package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // a high-level, user-facing message
	Details string `json:"details,omitempty"` // more specific details, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CheckoutSessionResponse returns the hosted checkout redirect URL.
type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

// ChefAdviceResponse wraps the free-form AI chef answer.
type ChefAdviceResponse struct {
	Advice string `json:"advice"`
}
