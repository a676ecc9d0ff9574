// Package region classifies normalized minimap coordinates into named
// map regions. Coordinates are fractions of the minimap in [0,1], with
// the origin at the top-left corner.
package region

import (
	geom "github.com/peterstace/simplefeatures/geom"
)

// Unknown is returned for coordinates outside the minimap or not a
// number. Detections still record with this region rather than being
// dropped.
const Unknown = "Unknown Region"

// zone is one named rectangle of the minimap.
type zone struct {
	name string
	env  geom.Envelope
}

func rect(name string, minX, minY, maxX, maxY float64) zone {
	env, err := geom.NewEnvelope([]geom.XY{{X: minX, Y: minY}, {X: maxX, Y: maxY}})
	if err != nil {
		panic(err)
	}
	return zone{
		name: name,
		env:  env,
	}
}

// zones partition the unit square. Shared edges belong to the zone
// listed first, so the scan goes bottom row first and right column
// first within each row. That keeps row boundaries with the lower row
// and column boundaries with the right column.
var zones = []zone{
	// Bottom row, y in [0.66, 1]
	rect("Bot Lane (Dire)", 0.66, 0.66, 1, 1),
	rect("Bot Jungle (Dire/Mid)", 0.33, 0.66, 0.66, 1),
	rect("Bot Lane/Jungle (Radiant)", 0, 0.66, 0.33, 1),

	// Middle row, y in [0.33, 0.66)
	rect("Jungle (Dire)", 0.85, 0.33, 1, 0.66),
	rect("Mid Lane (Dire Side)", 0.66, 0.33, 0.85, 0.66),
	rect("Mid Lane (Center)", 0.33, 0.33, 0.66, 0.66),
	rect("Mid Lane (Radiant Side)", 0.15, 0.33, 0.33, 0.66),
	rect("Jungle (Radiant)", 0, 0.33, 0.15, 0.66),

	// Top row, y in [0, 0.33)
	rect("Top Lane/Jungle (Dire)", 0.66, 0, 1, 0.33),
	rect("Top Jungle (Radiant/Mid)", 0.33, 0, 0.66, 0.33),
	rect("Top Lane (Radiant)", 0, 0, 0.33, 0.33),
}

// Classify maps a normalized minimap coordinate to its region name.
func Classify(x, y float64) string {
	p := geom.XY{X: x, Y: y}
	for _, z := range zones {
		if z.env.Contains(p) {
			return z.name
		}
	}
	return Unknown
}

// Names returns all region names in scan order, without Unknown.
func Names() []string {
	names := make([]string, len(zones))
	for i, z := range zones {
		names[i] = z.name
	}
	return names
}
