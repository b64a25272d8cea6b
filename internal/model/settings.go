package model

// Settings holds per-profile configuration. It has no bearing on ledger
// invariants and is passed through the adapter verbatim.
type Settings struct {
	UserName       string `json:"userName"`
	Currency       string `json:"currency"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	AccentColor    string `json:"accentColor"`
	Logo           string `json:"logo,omitempty"`
	AIAPIKey       string `json:"aiApiKey,omitempty"`
}

// DefaultSettings returns the settings applied to a fresh profile.
func DefaultSettings() Settings {
	return Settings{
		UserName:       "Usuario",
		Currency:       "$",
		PrimaryColor:   "#4f46e5",
		SecondaryColor: "#10b981",
		AccentColor:    "#f59e0b",
	}
}
