// Package zone tracks which parts of the world are resident on this
// client. A registry owns the lifecycle state machine for every known
// zone; the actual mounting of content is delegated to a ContentLoader.
package zone

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

const (
	// ZonePersistent holds cross-zone actors and systems. It is never
	// loaded or unloaded through the registry.
	ZonePersistent = "Persistent"

	// ZoneMainMenu is the front end shown before world entry. It may be
	// unloaded during a transition but never targeted by one.
	ZoneMainMenu = "MainMenu"
)

// Spec is the catalog record describing a zone. The zone's name doubles as
// its content-partition key, so the spec only carries presentation and
// spawn defaults.
type Spec struct {
	DisplayName     string `json:"display_name"`
	Description     string `json:"description,omitempty"`
	DefaultWaypoint string `json:"default_waypoint,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (s *Spec) Validate() error {
	el := errors.NewErrorList()

	if s.DisplayName == "" {
		el.Add(fmt.Errorf("display_name is required"))
	}

	return el.Err()
}
