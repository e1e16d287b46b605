package gesture

import (
	"sort"

	"peelsim/internal/geom"
)

// Canned scripts. Grab positions sit exactly on default edge-zone
// waypoints so they work at any viewport size.
var scripts = map[string]Script{
	"corner-tear": {
		Name:     "corner-tear",
		Duration: 1.5,
		Events: []Event{
			{At: 0.10, Kind: Move, Pos: geom.Vec{X: 0.5, Y: 0}},
			{At: 0.15, Kind: Down, Pos: geom.Vec{X: 0.5, Y: 0}},
			{At: 0.20, Kind: Move, Pos: geom.Vec{X: 0.5, Y: 0.15}},
			{At: 0.30, Kind: Move, Pos: geom.Vec{X: 0.5, Y: 0.25}},
			{At: 0.70, Kind: Up, Pos: geom.Vec{X: 0.5, Y: 0.25}},
		},
	},
	"timid-tug": {
		Name:     "timid-tug",
		Duration: 2.0,
		Events: []Event{
			{At: 0.10, Kind: Move, Pos: geom.Vec{X: 0.5, Y: 0}},
			{At: 0.15, Kind: Down, Pos: geom.Vec{X: 0.5, Y: 0}},
			{At: 0.20, Kind: Move, Pos: geom.Vec{X: 0.5, Y: 0.08}},
			{At: 0.60, Kind: Up, Pos: geom.Vec{X: 0.5, Y: 0.08}},
		},
	},
	"frenzy": {
		Name:     "frenzy",
		Duration: 3.0,
		Events: []Event{
			// Bottom edge.
			{At: 0.05, Kind: Move, Pos: geom.Vec{X: 0.5, Y: 0}},
			{At: 0.10, Kind: Down, Pos: geom.Vec{X: 0.5, Y: 0}},
			{At: 0.15, Kind: Move, Pos: geom.Vec{X: 0.5, Y: 0.3}},
			{At: 0.50, Kind: Up, Pos: geom.Vec{X: 0.5, Y: 0.3}},
			// Left edge, after the snap-off cooldown.
			{At: 0.95, Kind: Move, Pos: geom.Vec{X: 0, Y: 0.5}},
			{At: 1.00, Kind: Down, Pos: geom.Vec{X: 0, Y: 0.5}},
			{At: 1.05, Kind: Move, Pos: geom.Vec{X: 0.25, Y: 0.5}},
			{At: 1.40, Kind: Up, Pos: geom.Vec{X: 0.25, Y: 0.5}},
			// Right edge.
			{At: 1.85, Kind: Move, Pos: geom.Vec{X: 1, Y: 0.5}},
			{At: 1.90, Kind: Down, Pos: geom.Vec{X: 1, Y: 0.5}},
			{At: 1.95, Kind: Move, Pos: geom.Vec{X: 0.75, Y: 0.5}},
			{At: 2.30, Kind: Up, Pos: geom.Vec{X: 0.75, Y: 0.5}},
		},
	},
}

// Get returns the named script, or false if it does not exist.
func Get(name string) (Script, bool) {
	sc, ok := scripts[name]
	return sc, ok
}

// List returns all script names in sorted order.
func List() []string {
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
