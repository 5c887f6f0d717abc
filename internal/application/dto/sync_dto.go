package dto

// SyncConfigRequest body de PUT /api/sync/config.
type SyncConfigRequest struct {
	ScriptURL   string `json:"scriptUrl"`
	IsConnected bool   `json:"isConnected"`
	AutoSync    bool   `json:"autoSync"`
	PullLock    bool   `json:"pullLock"`
}

// UpdatePreferencesRequest body de PUT /api/preferences.
type UpdatePreferencesRequest struct {
	Theme     *string `json:"theme,omitempty"`
	Language  *string `json:"language,omitempty"`
	ActiveTab *string `json:"activeTab,omitempty"`
}
