package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agentic-research/trackedit/internal/command"
	"github.com/agentic-research/trackedit/internal/query"
	"github.com/agentic-research/trackedit/internal/tree"
)

var errUsage = errors.New("usage")

// op builds one command from its arguments. Paths are JSONPath expressions
// or #serial references.
type op struct {
	usage string
	short string
	min   int
	build func(s *session, args []string) (command.Command, error)
}

var ops = map[string]op{
	"rename": {
		usage: "rename <path> <name>",
		short: "Rename a node",
		min:   2,
		build: func(s *session, args []string) (command.Command, error) {
			n, err := query.One(s.root(), args[0])
			if err != nil {
				return nil, err
			}
			name := strings.Join(args[1:], " ")
			if name == "" && n.Explicit() {
				return nil, fmt.Errorf("%s #%d: a named node cannot be renamed to nothing", n.Kind(), n.Serial())
			}
			return command.NewRename(s.env, n, name), nil
		},
	},
	"set": {
		usage: "set <key> <value|-> <path>...",
		short: "Set (or with - clear) a metadata attribute",
		min:   3,
		build: func(s *session, args []string) (command.Command, error) {
			nodes, err := resolve(s, args[2:])
			if err != nil {
				return nil, err
			}
			return command.NewSetMetadata(s.env, nodes, args[0], parseValue(args[1]))
		},
	},
	"split": {
		usage: "split <path> <index>",
		short: "Split a segment or route at a point",
		min:   2,
		build: func(s *session, args []string) (command.Command, error) {
			n, err := query.One(s.root(), args[0])
			if err != nil {
				return nil, err
			}
			i, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("index: %w", err)
			}
			return command.NewSplit(s.env, n, i)
		},
	},
	"merge": {
		usage: "merge <path>...",
		short: "Merge segments or routes in time order",
		min:   1,
		build: func(s *session, args []string) (command.Command, error) {
			nodes, err := resolve(s, args)
			if err != nil {
				return nil, err
			}
			master, sources, err := command.PrepareMerge(nodes)
			if err != nil {
				return nil, err
			}
			return command.NewMerge(s.env, master, sources)
		},
	},
	"move": {
		usage: "move <dest> <row|-> <path>...",
		short: "Move nodes under a new parent",
		min:   3,
		build: func(s *session, args []string) (command.Command, error) {
			dest, err := query.One(s.root(), args[0])
			if err != nil {
				return nil, err
			}
			row := -1
			if args[1] != "-" {
				if row, err = strconv.Atoi(args[1]); err != nil {
					return nil, fmt.Errorf("row: %w", err)
				}
			}
			nodes, err := resolve(s, args[2:])
			if err != nil {
				return nil, err
			}
			return command.NewMove(s.env, nodes, dest, row)
		},
	},
	"delete": {
		usage: "delete <path>...",
		short: "Delete nodes",
		min:   1,
		build: func(s *session, args []string) (command.Command, error) {
			nodes, err := resolve(s, args)
			if err != nil {
				return nil, err
			}
			return command.NewDelete(s.env, nodes)
		},
	},
	"shift": {
		usage: "shift <dlat> <dlon> <path>...",
		short: "Move points by an offset",
		min:   3,
		build: func(s *session, args []string) (command.Command, error) {
			dlat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, fmt.Errorf("dlat: %w", err)
			}
			dlon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return nil, fmt.Errorf("dlon: %w", err)
			}
			nodes, err := resolve(s, args[2:])
			if err != nil {
				return nil, err
			}
			return command.NewMovePoints(s.env, nodes, dlat, dlon)
		},
	},
	"reverse": {
		usage: "reverse <path>...",
		short: "Reverse the point order of routes",
		min:   1,
		build: func(s *session, args []string) (command.Command, error) {
			nodes, err := resolve(s, args)
			if err != nil {
				return nil, err
			}
			return command.NewReverse(s.env, nodes)
		},
	},
	"add": {
		usage: "add <kind> <parent> [row]",
		short: "Add an empty track, route, segment or folder",
		min:   2,
		build: func(s *session, args []string) (command.Command, error) {
			kind, ok := tree.ParseKind(args[0])
			if !ok {
				return nil, fmt.Errorf("unknown kind %q", args[0])
			}
			parent, err := query.One(s.root(), args[1])
			if err != nil {
				return nil, err
			}
			row, err := optionalRow(args[2:])
			if err != nil {
				return nil, err
			}
			return command.NewAddContainer(s.env, parent, kind, row)
		},
	},
	"addpoint": {
		usage: "addpoint <container> [row]",
		short: "Insert an interpolated point",
		min:   1,
		build: func(s *session, args []string) (command.Command, error) {
			c, err := query.One(s.root(), args[0])
			if err != nil {
				return nil, err
			}
			row, err := optionalRow(args[1:])
			if err != nil {
				return nil, err
			}
			return command.NewAddPoint(s.env, c, row)
		},
	},
	"waypoint": {
		usage: "waypoint <parent> <lat> <lon> [name]",
		short: "Add a waypoint",
		min:   3,
		build: func(s *session, args []string) (command.Command, error) {
			parent, err := query.One(s.root(), args[0])
			if err != nil {
				return nil, err
			}
			lat, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return nil, fmt.Errorf("lat: %w", err)
			}
			lon, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return nil, fmt.Errorf("lon: %w", err)
			}
			w := command.Waypoint{Lat: lat, Lon: lon, Name: strings.Join(args[3:], " ")}
			return command.NewAddWaypoint(s.env, parent, w, -1)
		},
	},
	"copy": {
		usage: "copy <dest> <row|-> <path>...",
		short: "Paste copies of nodes under a parent",
		min:   3,
		build: func(s *session, args []string) (command.Command, error) {
			dest, err := query.One(s.root(), args[0])
			if err != nil {
				return nil, err
			}
			row := -1
			if args[1] != "-" {
				if row, err = strconv.Atoi(args[1]); err != nil {
					return nil, fmt.Errorf("row: %w", err)
				}
			}
			nodes, err := resolve(s, args[2:])
			if err != nil {
				return nil, err
			}
			return command.NewPaste(s.env, nodes, dest, row)
		},
	},
}

// buildOp looks up verb and builds its command.
func buildOp(s *session, verb string, args []string) (command.Command, error) {
	o, ok := ops[verb]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", verb)
	}
	if len(args) < o.min {
		return nil, fmt.Errorf("%w: %s", errUsage, o.usage)
	}
	if s.root() == nil {
		return nil, fmt.Errorf("%s: document is empty, import a file first", verb)
	}
	return o.build(s, args)
}

func opNames() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolve evaluates each path and concatenates the matches without
// duplicates.
func resolve(s *session, paths []string) ([]*tree.Node, error) {
	var out []*tree.Node
	seen := make(map[*tree.Node]bool)
	for _, p := range paths {
		nodes, err := query.Select(s.root(), p)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func optionalRow(args []string) (int, error) {
	if len(args) == 0 || args[0] == "-" {
		return -1, nil
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("row: %w", err)
	}
	return row, nil
}

// parseValue reads a metadata value: "-" clears, numbers become float64,
// RFC 3339 strings become times, anything else stays a string.
func parseValue(s string) any {
	if s == "-" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return s
}
