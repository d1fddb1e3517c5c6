package dto

// UpdatePreferencesRequest represents the request body for updating user settings.
// Omitted fields keep their current value.
type UpdatePreferencesRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=100"`
	DisplayCurrency *string `json:"display_currency"`
	ConversionMode  *string `json:"conversion_mode"`
}
