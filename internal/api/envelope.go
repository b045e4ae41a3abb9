package api

import (
	"bytes"
	"encoding/json"
)

// The backend wraps successful responses in several envelope shapes
// depending on endpoint and role. Each known shape is decoded explicitly:
// adding a newly observed shape means adding a case here, not another
// untyped conditional at a call site.

// userEnvelope is the outer shape of the user/profile and login endpoints.
// Observed variants:
//
//	{user: {role: "...", data: {...}}, token: "..."}
//	{data: {...}}
//	{...}                                 (bare profile)
type userEnvelope struct {
	User *struct {
		Role string          `json:"role"`
		Data json.RawMessage `json:"data"`
	} `json:"user"`
	Data  json.RawMessage `json:"data"`
	Token string          `json:"token"`
}

// DecodeUser normalizes any of the observed user envelopes into a canonical
// UserProfile, plus the bearer token when the envelope carried one. It
// returns KindMalformedResponse when no recognized shape matches or the
// profile lacks a role identifier.
func DecodeUser(raw []byte) (*UserProfile, string, error) {
	payload := json.RawMessage(raw)
	var token string

	var env userEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		token = env.Token
		switch {
		case env.User != nil && isObject(env.User.Data):
			payload = env.User.Data
		case isObject(env.Data):
			payload = env.Data
		}
	}

	if !isObject(payload) {
		return nil, "", &Error{Kind: KindMalformedResponse, Message: "user response is not an object"}
	}

	var profile UserProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, "", &Error{Kind: KindMalformedResponse, Message: "failed to decode user record", err: err}
	}

	if !profile.HasRoleID() {
		return nil, "", &Error{Kind: KindMalformedResponse, Message: "user record has no role identifier"}
	}

	return &profile, token, nil
}

// DecodeList normalizes a collection response into its elements. Recognized
// shapes, checked in order:
//
//	[...]                 bare array
//	[[...], ...]          array nested inside a one-element array
//	{data: [...]}         data wrapper
//	{<key>: [...]}        named wrapper (caller supplies candidate keys)
//	{data: {...}}         single object promoted to a one-element list
//	{id: ..., ...}        bare object promoted to a one-element list
func DecodeList(raw []byte, keys ...string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &Error{Kind: KindMalformedResponse, Message: "empty response"}
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &Error{Kind: KindMalformedResponse, Message: "failed to decode array response", err: err}
		}
		// The teacher/subjects endpoint has been observed returning the
		// real list nested inside a one-element array.
		if len(items) > 0 && bytes.HasPrefix(bytes.TrimSpace(items[0]), []byte("[")) {
			var inner []json.RawMessage
			if err := json.Unmarshal(items[0], &inner); err != nil {
				return nil, &Error{Kind: KindMalformedResponse, Message: "failed to decode nested array response", err: err}
			}
			return inner, nil
		}
		return items, nil
	}

	if trimmed[0] != '{' {
		return nil, &Error{Kind: KindMalformedResponse, Message: "response is neither an array nor an object"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "failed to decode object response", err: err}
	}

	for _, key := range append(keys, "data") {
		wrapped, ok := fields[key]
		if !ok || isJSONNull(wrapped) {
			continue
		}
		inner := bytes.TrimSpace(wrapped)
		if len(inner) > 0 && inner[0] == '[' {
			var items []json.RawMessage
			if err := json.Unmarshal(inner, &items); err != nil {
				return nil, &Error{Kind: KindMalformedResponse, Message: "failed to decode wrapped array", err: err}
			}
			return items, nil
		}
		if isObject(wrapped) {
			return []json.RawMessage{wrapped}, nil
		}
	}

	if _, ok := fields["id"]; ok {
		return []json.RawMessage{trimmed}, nil
	}

	return nil, &Error{Kind: KindMalformedResponse, Message: "no recognized collection envelope"}
}

// DecodeListInto normalizes a collection response and decodes each element
// into T.
func DecodeListInto[T any](raw []byte, keys ...string) ([]T, error) {
	items, err := DecodeList(raw, keys...)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, &Error{Kind: KindMalformedResponse, Message: "failed to decode collection element", err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeObject unwraps a {data: {...}} envelope, passing a bare object
// through unchanged.
func DecodeObject(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if !isObject(trimmed) {
		return nil, &Error{Kind: KindMalformedResponse, Message: "response is not an object"}
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err == nil && isObject(env.Data) {
		return env.Data, nil
	}

	return trimmed, nil
}

// DecodeObjectInto unwraps a {data: {...}} envelope and decodes the payload
// into T.
func DecodeObjectInto[T any](raw []byte) (T, error) {
	var v T
	payload, err := DecodeObject(raw)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, &Error{Kind: KindMalformedResponse, Message: "failed to decode object payload", err: err}
	}
	return v, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
