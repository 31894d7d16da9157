package data

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// ParseIDs parses a paper or author ID argument into a list of ID
// strings. The argument may be a single ID, a JSON-encoded list
// (e.g. "[2345, 3456, 35677]"), or a comma-separated list. Numeric
// JSON IDs keep their exact decimal form.
func ParseIDs(arg string) ([]string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, errors.New("no ID provided")
	}

	if strings.HasPrefix(arg, "[") {
		dec := json.NewDecoder(strings.NewReader(arg))
		dec.UseNumber()
		var raw []any
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(err, "failed to parse JSON ID list")
		}
		if len(raw) == 0 {
			return nil, errors.New("empty ID list")
		}
		ids := make([]string, 0, len(raw))
		for _, v := range raw {
			switch t := v.(type) {
			case string:
				ids = append(ids, t)
			case json.Number:
				ids = append(ids, t.String())
			default:
				return nil, errors.Errorf("unsupported ID type in list: %T", v)
			}
		}
		return ids, nil
	}

	if strings.Contains(arg, ",") {
		parts := strings.Split(arg, ",")
		ids := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				ids = append(ids, p)
			}
		}
		if len(ids) == 0 {
			return nil, errors.New("empty ID list")
		}
		return ids, nil
	}

	return []string{arg}, nil
}
