package session

import (
	"context"

	"github.com/pixil98/ithoria-client/internal/protocol"
)

// Gateway is the slice of the server gateway the session layer drives.
// *gateway.Client satisfies it.
type Gateway interface {
	Login(ctx context.Context, account, password string) (*protocol.LoginResult, error)
	CharacterList(ctx context.Context, accountId string) ([]protocol.CharacterSummary, error)
	AccountInventory(ctx context.Context, accountId string) (*protocol.Inventory, error)
	CharacterInventory(ctx context.Context, characterId string) (*protocol.Inventory, error)
	WorkbenchList(ctx context.Context, accountId string) ([]protocol.WorkbenchRecord, error)
	PlayerZoneInfo(ctx context.Context, characterId string) (*protocol.ZoneInfo, error)
	Waypoint(ctx context.Context, zoneName, waypointName string) (*protocol.WaypointResult, error)
	ServerZoneLoad(ctx context.Context, characterId, zoneName string) (*protocol.ZoneLoadResult, error)
	ConfirmZoneEntered(ctx context.Context, characterId, zoneName string, ok bool) error
	Presence(ctx context.Context, characterId string) error
}
