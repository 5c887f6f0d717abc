package entity

// Valores admitidos de preferencias.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	LanguageID = "id"
	LanguageEN = "en"
)

// Preferences preferencias de presentación de la sesión.
type Preferences struct {
	Theme     string `json:"theme"`
	Language  string `json:"language"`
	ActiveTab string `json:"activeTab"`
}

// DefaultPreferences valores iniciales.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, Language: LanguageID, ActiveTab: "dashboard"}
}
