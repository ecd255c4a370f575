package dto

// FavoriteToggleResponse reports the state after a toggle.
type FavoriteToggleResponse struct {
	CategoryID string `json:"categoryId"`
	OnOff      bool   `json:"onOff"`
}
