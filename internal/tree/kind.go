package tree

import "fmt"

// Kind is the closed set of node variants in a document.
type Kind uint8

const (
	KindFile Kind = iota
	KindTrack
	KindSegment
	KindRoute
	KindFolder
	KindTrackPoint
	KindRoutePoint
	KindWaypoint
	// KindHolder marks an orphan holder: a node that is never part of a
	// document and only keeps detached subtrees alive for a command.
	KindHolder
)

var kindNames = [...]string{
	KindFile:       "file",
	KindTrack:      "track",
	KindSegment:    "segment",
	KindRoute:      "route",
	KindFolder:     "folder",
	KindTrackPoint: "trackpoint",
	KindRoutePoint: "routepoint",
	KindWaypoint:   "waypoint",
	KindHolder:     "holder",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind maps a kind name back to its Kind. Holders cannot be parsed.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s && Kind(k) != KindHolder {
			return Kind(k), true
		}
	}
	return 0, false
}

// IsPoint reports whether nodes of this kind carry a position.
func (k Kind) IsPoint() bool {
	return k == KindTrackPoint || k == KindRoutePoint || k == KindWaypoint
}

// IsPointContainer reports whether nodes of this kind hold an ordered run of
// points (segments and routes).
func (k Kind) IsPointContainer() bool {
	return k == KindSegment || k == KindRoute
}

// PointKind returns the kind of point a container holds.
func (k Kind) PointKind() (Kind, bool) {
	switch k {
	case KindSegment:
		return KindTrackPoint, true
	case KindRoute:
		return KindRoutePoint, true
	}
	return 0, false
}

// Accepts reports whether a node of kind k may own a child of kind child.
func (k Kind) Accepts(child Kind) bool {
	if child == KindHolder {
		return false
	}
	switch k {
	case KindHolder:
		return true
	case KindFile, KindFolder:
		return child == KindTrack || child == KindRoute || child == KindFolder || child == KindWaypoint
	case KindTrack:
		return child == KindSegment
	case KindSegment:
		return child == KindTrackPoint
	case KindRoute:
		return child == KindRoutePoint
	}
	return false
}
