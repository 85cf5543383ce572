package response_models

// ConfirmationResponse is the first half of a two-phase destructive action.
type ConfirmationResponse struct {
	Token     string `json:"token"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	ExpiresAt int64  `json:"expiresAt"`
}
