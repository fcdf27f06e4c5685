package model

import "strconv"

// PlayerID uniquely identifies a participant. IDs are assigned by the engine
// and are stable for the lifetime of a save, across process restarts.
type PlayerID int64

// String renders the ID in its canonical decimal form
func (id PlayerID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParsePlayerID parses the decimal form produced by String
func ParsePlayerID(s string) (PlayerID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidPlayerID
	}
	return PlayerID(n), nil
}

// Role is the authorization level of a participant
type Role string

// Roles
const (
	RoleAdmin      Role = "admin"
	RoleUnassigned Role = "unassigned"
)

// AuthorizationRecord is the durable participant-to-role mapping for a save.
// The owner is captured when the record is first created and never changes.
type AuthorizationRecord struct {
	OwnerID PlayerID          `json:"ownerId"`
	Roles   map[PlayerID]Role `json:"roles"`
}

// NewAuthorizationRecord creates a fresh record with the owner seeded as admin
func NewAuthorizationRecord(owner PlayerID) *AuthorizationRecord {
	return &AuthorizationRecord{
		OwnerID: owner,
		Roles:   map[PlayerID]Role{owner: RoleAdmin},
	}
}
