package api

// Document is the interchange form of a track file as read by import and
// written by export.
type Document struct {
	// Version of the trackedit schema.
	Version string `json:"version"`
	// Name of the file node.
	Name string `json:"name"`
	// Meta holds file-level attributes.
	Meta map[string]any `json:"meta,omitempty"`
	// Nodes are the top-level tracks, routes, folders and waypoints.
	Nodes []Node `json:"nodes,omitempty"`
}

// Node is one element of a document. Kind is one of "track", "segment",
// "route", "folder", "trackpoint", "routepoint" or "waypoint".
type Node struct {
	Kind string `json:"kind"`
	// Name is empty for unnamed nodes.
	Name string `json:"name,omitempty"`
	// Lat and Lon are only meaningful for point kinds.
	Lat float64 `json:"lat,omitempty"`
	Lon float64 `json:"lon,omitempty"`
	// Meta holds attributes by key name. "time" is an RFC 3339 string,
	// "ele" a number.
	Meta     map[string]any `json:"meta,omitempty"`
	Children []Node         `json:"children,omitempty"`
	// Serial is set on export only.
	Serial uint32 `json:"serial,omitempty"`
}

// Version is the current schema version.
const Version = "v1"
