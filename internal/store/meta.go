package store

import (
	"fmt"
	"time"

	"github.com/agentic-research/trackedit/internal/meta"
	"github.com/goccy/go-json"
)

// value is the typed JSON form of one metadata value. JSON alone would turn
// times into strings and every number into float64.
type value struct {
	T string          `json:"t"`
	V json.RawMessage `json:"v"`
}

func encodeMeta(s *meta.Store) (any, error) {
	if s.Len() == 0 {
		return nil, nil
	}
	out := make(map[string]value, s.Len())
	for _, k := range s.Keys() {
		v := s.Value(k)
		var typ string
		switch x := v.(type) {
		case time.Time:
			typ, v = "time", x.Format(time.RFC3339Nano)
		case float64:
			typ = "float"
		case int:
			typ, v = "int", int64(x)
		case int64:
			typ = "int"
		case string:
			typ = "string"
		case bool:
			typ = "bool"
		default:
			typ = "json"
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", meta.NameOf(k), err)
		}
		out[meta.NameOf(k)] = value{T: typ, V: raw}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeMeta(s *meta.Store, record string) error {
	var in map[string]value
	if err := json.Unmarshal([]byte(record), &in); err != nil {
		return fmt.Errorf("decode meta: %w", err)
	}
	for name, v := range in {
		var (
			out any
			err error
		)
		switch v.T {
		case "time":
			var str string
			if err = json.Unmarshal(v.V, &str); err == nil {
				out, err = time.Parse(time.RFC3339Nano, str)
			}
		case "float":
			var f float64
			err = json.Unmarshal(v.V, &f)
			out = f
		case "int":
			var i int64
			err = json.Unmarshal(v.V, &i)
			out = int(i)
		case "string":
			var str string
			err = json.Unmarshal(v.V, &str)
			out = str
		case "bool":
			var b bool
			err = json.Unmarshal(v.V, &b)
			out = b
		default:
			err = json.Unmarshal(v.V, &out)
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		s.SetNamed(name, out)
	}
	return nil
}
