package protocol

// Typed request/response bodies, one pair per RequestType. These ride in
// the envelope's Payload field.

type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

type LoginResult struct {
	AccountId string `json:"account_id"`
	Motd      string `json:"motd,omitempty"`
}

type CharacterListRequest struct {
	AccountId string `json:"account_id"`
}

type CharacterList struct {
	Characters []CharacterSummary `json:"characters"`
}

type CharacterSummary struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
	Zone  string `json:"zone,omitempty"`
}

type AccountInventoryRequest struct {
	AccountId string `json:"account_id"`
}

type CharacterInventoryRequest struct {
	CharacterId string `json:"character_id"`
}

type Inventory struct {
	Items []InventoryItem `json:"items"`
}

type InventoryItem struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type WorkbenchListRequest struct {
	AccountId string `json:"account_id"`
}

type WorkbenchList struct {
	Workbenches []WorkbenchRecord `json:"workbenches"`
}

type WorkbenchRecord struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Tier int    `json:"tier"`
}

type ZoneInfoRequest struct {
	CharacterId string `json:"character_id"`
}

// ZoneInfo tells the client where a character belongs. Position is nil
// when the server has no persisted point for the character; UseWaypoint
// directs the client to spawn at Waypoint instead (empty means the zone's
// default waypoint).
type ZoneInfo struct {
	Zone        string    `json:"zone"`
	Position    *Position `json:"position,omitempty"`
	UseWaypoint bool      `json:"use_waypoint,omitempty"`
	Waypoint    string    `json:"waypoint,omitempty"`
}

type WaypointRequest struct {
	Zone string `json:"zone"`
	Name string `json:"name"`
}

type WaypointResult struct {
	Name     string   `json:"name"`
	Zone     string   `json:"zone"`
	Position Position `json:"position"`
}

type ZoneLoadRequest struct {
	CharacterId string `json:"character_id"`
	Zone        string `json:"zone"`
}

type ZoneLoadResult struct {
	Zone  string `json:"zone"`
	Ready bool   `json:"ready"`
}
