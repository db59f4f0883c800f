package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type UserData struct {
	User AuthUser `json:"user"`
}

type FeedbackPageListData struct {
	FeedbackPages []FeedbackPage `json:"feedback_pages"`
}

type ExpiryData struct {
	Expired bool `json:"expired"`
}
