package protocol

import "fmt"

// Position is a point in world space. The zero value is the world origin,
// which the server also uses as a "no position recorded" sentinel.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Position) IsOrigin() bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}

func (p Position) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", p.X, p.Y, p.Z)
}
