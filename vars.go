package jsonapi

import (
	"log/slog"
	"strings"

	"github.com/syssam/jsonapi/internal/record"
)

// ViewVars is an ordered set of named values a serialize target can refer to.
// Names starting with "_" are special and never picked implicitly.
type ViewVars struct {
	names  []string
	values map[string]any
}

// NewViewVars returns an empty variable set.
func NewViewVars() *ViewVars {
	return &ViewVars{values: make(map[string]any)}
}

// Set assigns a variable. Reassigning keeps the original position.
func (v *ViewVars) Set(name string, value any) *ViewVars {
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}
	v.values[name] = value
	return v
}

// Get returns the value of a variable.
func (v *ViewVars) Get(name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	val, ok := v.values[name]
	return val, ok
}

// Names returns the variable names in declaration order.
func (v *ViewVars) Names() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.names...)
}

func isSpecialVar(name string) bool {
	return strings.HasPrefix(name, "_")
}

// resolveTarget turns a serialize target into the payload it selects.
// ok is false when the target selects nothing.
func resolveTarget(target any, vars *ViewVars, logger *slog.Logger) (payload any, ok bool) {
	switch t := target.(type) {
	case nil:
		return nil, false
	case bool:
		if !t {
			return nil, false
		}
		for _, name := range vars.Names() {
			if !isSpecialVar(name) {
				return vars.Get(name)
			}
		}
		return nil, false
	case string:
		return vars.Get(t)
	case []string:
		switch len(t) {
		case 0:
			return nil, false
		case 1:
			return vars.Get(t[0])
		}
		var all []any
		found := false
		for _, name := range t {
			val, ok := vars.Get(name)
			if !ok {
				continue
			}
			found = true
			if items, ok := record.Collection(val); ok {
				all = append(all, items...)
			} else if !record.IsNil(val) {
				all = append(all, val)
			}
		}
		if !found {
			return nil, false
		}
		if all == nil {
			all = []any{}
		}
		return all, true
	}
	logger.Warn("jsonapi: serializing records directly is deprecated, pass a view variable name instead",
		"type", record.TypeOf(target))
	return target, true
}

// isEmptyPayload reports whether a resolved payload holds nothing to render.
func isEmptyPayload(payload any) bool {
	if items, ok := record.Collection(payload); ok {
		return len(items) == 0
	}
	return record.IsNil(payload)
}
