package domain

// Session persistence layout.
const (
	// SessionMarkerKey is the fixed key written to the session store once the engine fired.
	SessionMarkerKey = "exit-intent-triggered"
	// SessionMarkerValue is the truthy marker stored under SessionMarkerKey.
	SessionMarkerValue = "true"
)

// Pointer corner hot zone, in device-independent units.
const (
	CornerZoneHeight = 50
	CornerZoneWidth  = 250
)

// Heuristic identifies the detector that fired the gate.
type Heuristic string

const (
	HeuristicPointerCorner Heuristic = "pointer_corner"
	HeuristicScrollDepth   Heuristic = "scroll_depth"
)
