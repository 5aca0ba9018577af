package domain

import (
	"encoding/json"
	"reflect"
)

// Selector is a CouchDB-style document filter. Plain fields match by exact
// value equality. Two operators are supported:
//
//	{"$or": [sel, sel, ...]}         any branch matches
//	{"field": {"$nin": [v, v, ..]}}  field value not in the list
//
// All backends share this matcher so query semantics do not drift between
// deployments.
type Selector map[string]any

// Matches reports whether a decoded JSON document satisfies the selector.
// An empty selector matches every document.
func (s Selector) Matches(doc map[string]any) bool {
	for field, want := range s {
		if field == "$or" {
			if !matchOr(want, doc) {
				return false
			}
			continue
		}
		got, ok := doc[field]
		if cond, isOp := want.(map[string]any); isOp {
			if nin, has := cond["$nin"]; has {
				if ok && containsValue(nin, got) {
					return false
				}
				continue
			}
		}
		if !ok || !valueEqual(got, want) {
			return false
		}
	}
	return true
}

// MatchesRaw decodes raw JSON and applies the selector. Undecodable values
// never match.
func (s Selector) MatchesRaw(raw []byte) bool {
	if len(s) == 0 {
		return true
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	return s.Matches(doc)
}

func matchOr(branches any, doc map[string]any) bool {
	list, ok := branches.([]any)
	if !ok {
		if sels, ok2 := branches.([]Selector); ok2 {
			for _, sel := range sels {
				if sel.Matches(doc) {
					return true
				}
			}
		}
		return false
	}
	for _, branch := range list {
		if m, ok := branch.(map[string]any); ok && Selector(m).Matches(doc) {
			return true
		}
		if sel, ok := branch.(Selector); ok && sel.Matches(doc) {
			return true
		}
	}
	return false
}

func containsValue(list any, v any) bool {
	items, ok := list.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if valueEqual(v, item) {
			return true
		}
	}
	return false
}

// valueEqual compares a document value against a selector value. Selectors
// built in Go use typed values while decoded JSON yields float64/string/bool,
// so numbers are compared through float64.
func valueEqual(got, want any) bool {
	if gf, ok := asFloat(got); ok {
		if wf, ok2 := asFloat(want); ok2 {
			return gf == wf
		}
		return false
	}
	return reflect.DeepEqual(got, want)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
