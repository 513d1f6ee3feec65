package lang

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Keys of the native representation. Each requirement is a map with exactly
// one of the kind keys, plus "params" for function calls.
const (
	keyTag    = "tag"
	keyExact  = "exact"
	keyCall   = "call"
	keyParams = "params"
	keyNot    = "not"
)

// ToNative converts the requirement to nested maps and slices suitable for
// generic encoders.
func (r *Requirement) ToNative() map[string]any {
	if r == nil {
		return nil
	}

	switch r.Kind {
	case RequirementTag:
		return map[string]any{keyTag: r.Name}

	case RequirementTagExact:
		return map[string]any{keyExact: r.Name}

	case RequirementNot:
		return map[string]any{keyNot: r.Inner.ToNative()}

	case RequirementFnCall:
		params := make([]any, len(r.Params))
		for i, p := range r.Params {
			params[i] = p.ToNative()
		}

		return map[string]any{keyCall: r.Name, keyParams: params}
	}

	return nil
}

// ToNative converts the forest to a slice of native requirements.
func (ast *AST) ToNative() []any {
	native := make([]any, len(ast.Requirements))
	for i, req := range ast.Requirements {
		native[i] = req.ToNative()
	}

	return native
}

// FromNative rebuilds a requirement from its native representation, as
// produced by decoding the output of [Requirement.ToNative].
func FromNative(v any) (*Requirement, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrInvalidRequirement.
			With(slog.String("type", fmt.Sprintf("%T", v)))
	}

	if name, ok := m[keyTag].(string); ok {
		return NewTag(name), nil
	}

	if name, ok := m[keyExact].(string); ok {
		return NewTagExact(name), nil
	}

	if inner, ok := m[keyNot]; ok {
		req, err := FromNative(inner)
		if err != nil {
			return nil, err
		}

		return NewNot(req), nil
	}

	if name, ok := m[keyCall].(string); ok {
		raw, _ := m[keyParams].([]any)

		params := make([]*Requirement, len(raw))
		for i, p := range raw {
			req, err := FromNative(p)
			if err != nil {
				return nil, err
			}

			params[i] = req
		}

		return NewFnCall(name, params...), nil
	}

	return nil, ErrInvalidRequirement.
		With(slog.Any("value", m))
}

// MarshalJSON implements json.Marshaler.
func (r *Requirement) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToNative())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Requirement) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	req, err := FromNative(v)
	if err != nil {
		return err
	}

	*r = *req

	return nil
}

// MarshalJSON implements json.Marshaler.
func (ast *AST) MarshalJSON() ([]byte, error) {
	return json.Marshal(ast.ToNative())
}

// UnmarshalJSON implements json.Unmarshaler.
func (ast *AST) UnmarshalJSON(data []byte) error {
	var reqs []*Requirement
	if err := json.Unmarshal(data, &reqs); err != nil {
		return err
	}

	if reqs == nil {
		reqs = []*Requirement{}
	}

	ast.Requirements = reqs
	ast.source = ""

	return nil
}
