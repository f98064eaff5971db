package dto

// EnableFeatureRequest payload.
type EnableFeatureRequest struct {
	Feature string `json:"feature"`
}

// UpdatePlanRequest payload.
type UpdatePlanRequest struct {
	Plan string `json:"plan"`
}

// UpdatePeriodRequest payload.
type UpdatePeriodRequest struct {
	SubscriptionEndDate string `json:"subscription-end-date"`
}

// ActionResponse reports one account action.
type ActionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SignupStatusResponse reports the account's signup state.
type SignupStatusResponse struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	SignupStatus string `json:"signup_status"`
}
