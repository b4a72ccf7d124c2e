package models

// OptimizeCvRequest represents the request payload for optimizing a CV
// against a job posting
type OptimizeCvRequest struct {
	JobTitle       string `json:"job_title" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
	UserID         string `json:"user_id,omitempty"`
}

// ApplySuggestionRequest represents the request payload for applying one
// suggestion section back into the CV
type ApplySuggestionRequest struct {
	Section string `json:"section" validate:"required,oneof=summary skills experience education"`
	Index   int    `json:"index,omitempty"`
	Field   string `json:"field,omitempty"`
}

// QuoteRequest represents the request payload for a paid visibility tier
// quote
type QuoteRequest struct {
	Tier       string `json:"tier" validate:"required,oneof=top vip premium"`
	Days       int    `json:"days" validate:"required,min=1,max=90"`
	CouponCode string `json:"coupon_code,omitempty"`
}
