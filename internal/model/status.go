package model

// SessionStatus is a point-in-time snapshot of the session for external
// consumers. Producing one never mutates session state.
type SessionStatus struct {
	PlayerCount   int    `json:"playerCount"`
	MaxPlayers    int    `json:"maxPlayers"`
	InviteCode    string `json:"inviteCode"`
	ServerVersion string `json:"serverVersion"`
	IsOnline      bool   `json:"isOnline"`
}

// OfflineStatus returns the fixed snapshot published when no session is
// active: counts zeroed, no invite code, offline
func OfflineStatus(version string) SessionStatus {
	return SessionStatus{
		ServerVersion: version,
		IsOnline:      false,
	}
}
