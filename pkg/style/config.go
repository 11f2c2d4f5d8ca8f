package style

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Config is a flat style record. Values are primitives: numbers, strings
// and booleans.
type Config map[string]any

// Has reports whether key is set
func (c Config) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Float returns key as a number, or def when missing or not numeric
func (c Config) Float(key string, def float64) float64 {
	v, ok := c[key]
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

// Int returns key as an integer, or def when missing or not numeric
func (c Config) Int(key string, def int) int {
	v, ok := c[key]
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return int(f)
	}
	return def
}

// Bool returns key as a boolean, or def when missing. The strings "true"
// and "false" are accepted.
func (c Config) Bool(key string, def bool) bool {
	v, ok := c[key]
	if !ok {
		return def
	}
	if b, ok := toBool(v); ok {
		return b
	}
	return def
}

// String returns key as a string, or def when missing or empty
func (c Config) String(key string, def string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return def
	}
	switch s := v.(type) {
	case string:
		if s == "" {
			return def
		}
		return s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

// Clone returns a shallow copy; values are primitives so this is a full copy
func (c Config) Clone() Config {
	if c == nil {
		return Config{}
	}
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge returns a new config holding c overlaid with other
func (c Config) Merge(other Config) Config {
	out := c.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Keys returns the keys in sorted order
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Canonical renders the config deterministically; equal configs render
// equally regardless of map order.
func (c Config) Canonical() string {
	var b strings.Builder
	for _, k := range c.Keys() {
		fmt.Fprintf(&b, "%s=%v;", k, c[k])
	}
	return b.String()
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	if f, ok := toFloat(v); ok {
		return f != 0, true
	}
	return false, false
}
