package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ClassUpdateKind names the single concern a class PATCH changes.
type ClassUpdateKind string

const (
	ClassUpdateStatus   ClassUpdateKind = "status"
	ClassUpdateFeedback ClassUpdateKind = "feedback"
	ClassUpdateSeats    ClassUpdateKind = "seats"
	ClassUpdateInrolled ClassUpdateKind = "inrolled"
)

// ClassUpdateKindKey is the optional body field selecting the update explicitly.
const ClassUpdateKindKey = "updateKind"

// classUpdatePriority is the order in which implicit updates are inferred.
var classUpdatePriority = []ClassUpdateKind{
	ClassUpdateStatus,
	ClassUpdateFeedback,
	ClassUpdateSeats,
	ClassUpdateInrolled,
}

var (
	ErrNoClassUpdate      = errors.New("one of status, feedback, seats or inrolled is required")
	ErrUnknownUpdateKind  = errors.New("unknown updateKind")
	ErrMissingUpdateField = errors.New("field named by updateKind is missing")
)

// Field is the stored document field the kind writes.
func (k ClassUpdateKind) Field() string {
	switch k {
	case ClassUpdateSeats:
		return "availableSeats"
	case ClassUpdateInrolled:
		return "inrolledStudent"
	default:
		return string(k)
	}
}

func (k ClassUpdateKind) valid() bool {
	for _, known := range classUpdatePriority {
		if k == known {
			return true
		}
	}
	return false
}

// ClassPatch is a resolved class update: exactly one field and its new value.
type ClassPatch struct {
	Kind  ClassUpdateKind
	Value interface{}
}

// ResolveClassPatch picks the single field a PATCH body mutates. An explicit
// updateKind wins; otherwise the first truthy field in priority order is used.
func ResolveClassPatch(body map[string]interface{}) (ClassPatch, error) {
	if raw, ok := body[ClassUpdateKindKey]; ok && raw != nil {
		name, _ := raw.(string)
		kind := ClassUpdateKind(name)
		if !kind.valid() {
			return ClassPatch{}, fmt.Errorf("%w: %v", ErrUnknownUpdateKind, raw)
		}
		value, ok := body[string(kind)]
		if !ok || value == nil {
			return ClassPatch{}, fmt.Errorf("%w: %s", ErrMissingUpdateField, kind)
		}
		return ClassPatch{Kind: kind, Value: value}, nil
	}

	for _, kind := range classUpdatePriority {
		if value := body[string(kind)]; Truthy(value) {
			return ClassPatch{Kind: kind, Value: value}, nil
		}
	}
	return ClassPatch{}, ErrNoClassUpdate
}

// Truthy reports whether a decoded JSON value counts as set. null, false, zero and
// the empty string are falsy; objects and arrays are always truthy.
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}
