package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// Info is a plugin's self-description: the command patterns it answers
// to with parallel short and extended description lists.
type Info struct {
	Name            string
	Category        string
	Version         string
	Authors         []string
	Patterns        []string
	Descriptions    []string
	ExtDescriptions []string
}

// Manifest is the statically-extracted declaration block of a plugin
// source file: the packages it needs, whether it demands a raw client
// handle, its configuration defaults and its documented commands.
type Manifest struct {
	Requires []string
	Trusted  bool
	Config   map[string]any
	Info     *Info
}

// Description derives the catalog description from the declared
// commands, one per line.
func (m *Manifest) Description() string {
	if m.Info == nil {
		return ""
	}

	lines := make([]string, 0, len(m.Info.Patterns))
	for i, pattern := range m.Info.Patterns {
		if i < len(m.Info.Descriptions) {
			lines = append(lines, pattern+": "+m.Info.Descriptions[i])
		} else {
			lines = append(lines, pattern)
		}
	}
	return strings.Join(lines, "\n")
}

// Version returns the declared plugin version, if any.
func (m *Manifest) Version() string {
	if m.Info == nil {
		return ""
	}
	return m.Info.Version
}

// CastValue converts a raw string to the type of the configuration
// key's declared default, so edits keep the schema's types stable.
func (m *Manifest) CastValue(key, raw string) (any, error) {
	def, ok := m.Config[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key %q", key)
	}

	switch def.(type) {
	case bool:
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("configuration key %q wants a boolean, got %q", key, raw)
		}
		return value, nil
	case int:
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("configuration key %q wants an integer, got %q", key, raw)
		}
		return value, nil
	case float64:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("configuration key %q wants a number, got %q", key, raw)
		}
		return value, nil
	case string:
		return raw, nil
	default:
		return nil, fmt.Errorf("configuration key %q has an uncastable default (%T)", key, def)
	}
}

// ParseError reports source text that could not be parsed at all, as
// opposed to a manifest that parsed but fails validation.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse module source: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a manifest that parsed cleanly but violates
// a consistency rule.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid module manifest: %s", e.Reason)
}
