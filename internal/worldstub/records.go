package worldstub

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/ithoria-client/internal/protocol"
	"github.com/pixil98/ithoria-client/internal/storage"
)

// AccountSpec is a login account fixture.
type AccountSpec struct {
	// PasswordHash is the bcrypt-hashed login credential
	PasswordHash string `json:"password_hash"`

	// Items is the account-wide shared stash
	Items []protocol.InventoryItem `json:"items,omitempty"`
}

func (a *AccountSpec) Validate() error {
	el := errors.NewErrorList()

	if a.PasswordHash == "" {
		el.Add(fmt.Errorf("account must have a password hash"))
	}

	return el.Err()
}

// CharacterSpec is a playable character fixture.
type CharacterSpec struct {
	// Account is the identifier of the owning account
	Account string `json:"account"`

	Name  string `json:"name"`
	Level int    `json:"level,omitempty"`

	// Last known location, updated when the client confirms zone entry
	Zone     string             `json:"zone,omitempty"`
	Position *protocol.Position `json:"position,omitempty"`

	// UseWaypoint directs the client to spawn at Waypoint rather than at
	// the persisted position
	UseWaypoint bool   `json:"use_waypoint,omitempty"`
	Waypoint    string `json:"waypoint,omitempty"`

	Items []protocol.InventoryItem `json:"items,omitempty"`

	// Extensions carries per-character state the stub doesn't model,
	// preserved across saves
	Extensions storage.ExtensionState `json:"extensions,omitempty"`
}

func (c *CharacterSpec) Validate() error {
	el := errors.NewErrorList()

	if c.Account == "" {
		el.Add(fmt.Errorf("character must belong to an account"))
	}
	if c.Name == "" {
		el.Add(fmt.Errorf("character must have a name"))
	}

	return el.Err()
}

// WaypointSpec is a named spawn point inside a zone.
type WaypointSpec struct {
	Zone     string            `json:"zone"`
	Name     string            `json:"name"`
	Position protocol.Position `json:"position"`
}

func (w *WaypointSpec) Validate() error {
	el := errors.NewErrorList()

	if w.Zone == "" {
		el.Add(fmt.Errorf("waypoint must have a zone"))
	}
	if w.Name == "" {
		el.Add(fmt.Errorf("waypoint must have a name"))
	}

	return el.Err()
}

// WaypointId is the store key for a waypoint, unique per zone and name.
func WaypointId(zoneName, waypointName string) storage.Identifier {
	return storage.Identifier(zoneName + "-" + strings.ToLower(waypointName))
}

// WorkbenchSpec is a crafting station owned by an account.
type WorkbenchSpec struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Tier    int    `json:"tier,omitempty"`
}

func (w *WorkbenchSpec) Validate() error {
	el := errors.NewErrorList()

	if w.Account == "" {
		el.Add(fmt.Errorf("workbench must belong to an account"))
	}
	if w.Name == "" {
		el.Add(fmt.Errorf("workbench must have a name"))
	}

	return el.Err()
}
