package domain

// Waypoint roles in route computation.
const (
	RoleOrigin      = "origin"
	RoleStop        = "stop"
	RoleDestination = "destination"
)

// Waypoint is a geocoded point participating in route computation.
// Immutable once constructed; the set is re-derived whenever the
// itinerary changes.
type Waypoint struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Role        string      `json:"role"`
}

// RouteLeg is one resolved edge between two consecutive waypoints.
type RouteLeg struct {
	From            Waypoint `json:"from"`
	To              Waypoint `json:"to"`
	DistanceMeters  int      `json:"distance_meters"`
	DurationSeconds int      `json:"duration_seconds"`
}

// RouteSummary is the authoritative route view. Once populated it is
// monotonically "last good": never reset to zero/empty by a failed
// recomputation, only cleared when waypoints drop below two.
type RouteSummary struct {
	Legs                 []RouteLeg    `json:"legs,omitempty"`
	TotalDistanceMeters  int           `json:"total_distance_meters"`
	TotalDurationSeconds int           `json:"total_duration_seconds"`
	Polyline             []Coordinates `json:"polyline,omitempty"`

	// Source names the precedence tier that produced the totals:
	// "multipoint", "legs", "observed", or "retained".
	Source string `json:"source,omitempty"`
}

// BuildWaypoints derives the ordered waypoint list from an optional user
// origin, the itinerary stops, and the geocoded destination. Stops
// without valid coordinates are excluded from routing.
func BuildWaypoints(origin *Coordinates, it *Itinerary, destName string, dest *Coordinates) []Waypoint {
	var out []Waypoint

	if origin != nil && origin.Valid() {
		out = append(out, Waypoint{
			ID:          "origin",
			Name:        "Current location",
			Coordinates: *origin,
			Role:        RoleOrigin,
		})
	}

	if it != nil {
		for _, day := range it.Days() {
			for _, p := range day.Places {
				if p.Coordinates == nil || !p.Coordinates.Valid() {
					continue
				}
				out = append(out, Waypoint{
					ID:          p.Key,
					Name:        p.Name,
					Coordinates: *p.Coordinates,
					Role:        RoleStop,
				})
			}
		}
	}

	if dest != nil && dest.Valid() {
		out = append(out, Waypoint{
			ID:          "destination",
			Name:        destName,
			Coordinates: *dest,
			Role:        RoleDestination,
		})
	}

	return out
}
