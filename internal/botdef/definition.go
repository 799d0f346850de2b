// Package botdef holds the externally supplied bot definition types. The
// external generation pipeline produces and validates these documents; the
// engine treats numeric fields as already clamped to their documented ranges
// and never re-validates them. cmd/schema reflects these types into the JSON
// schema published to the generator.
package botdef

import (
	"encoding/json"
	"fmt"
	"os"
)

// Weapon describes a bot's single weapon.
type Weapon struct {
	Type     string  `json:"type" jsonschema:"description=Weapon archetype identifier (e.g. sword; hammer; spear)"`
	Damage   float64 `json:"damage" jsonschema:"description=Base damage per hit before armor reduction"`
	Cooldown float64 `json:"cooldown" jsonschema:"description=Seconds between attacks"`
	Range    float64 `json:"range" jsonschema:"description=Maximum hit distance in arena units"`
}

// Definition is one immutable bot document. BehaviorSource is the untrusted
// decision code compiled by the behavior sandbox; Strategy is the
// human-readable plan shown alongside the match.
type Definition struct {
	Name           string  `json:"name" jsonschema:"description=Display name"`
	Shape          string  `json:"shape" jsonschema:"description=Body shape: circle; rect; triangle; pentagon or hexagon"`
	Size           float64 `json:"size" jsonschema:"description=Radius (circles/polygons) or half-extent (rects) in arena units"`
	Color          string  `json:"color" jsonschema:"description=Render color; opaque to the engine"`
	Speed          float64 `json:"speed" jsonschema:"description=Base movement speed"`
	Armor          float64 `json:"armor" jsonschema:"description=Flat armor rating; each point removes 5% of incoming damage"`
	MaxHealth      float64 `json:"maxHealth" jsonschema:"description=Health pool; 0 selects the engine default"`
	Weapon         Weapon  `json:"weapon"`
	BehaviorSource string  `json:"behaviorSource" jsonschema:"description=Decision code executed every tick inside the sandbox"`
	Strategy       string  `json:"strategy" jsonschema:"description=Human-readable strategy summary"`
}

// LoadFile reads one definition document from disk.
func LoadFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("botdef: read %s: %w", path, err)
	}
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("botdef: decode %s: %w", path, err)
	}
	return def, nil
}
