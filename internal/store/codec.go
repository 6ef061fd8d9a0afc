package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mcoot/pickupgames/internal/model"
)

var errUnknownEncoding = errors.New("unrecognized collection encoding")

// encodeCollection writes a collection as a JSON list of [id, entity] pairs,
// ordered by id so identical collections always produce identical bytes
func encodeCollection[K ~string, V any](m map[K]V) (string, error) {
	pairs := make([][2]any, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		pairs = append(pairs, [2]any{k, m[k]})
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeCollection reads either the list-of-pairs encoding or the legacy
// object keyed by id
func decodeCollection[K ~string, V any](raw string) (map[K]V, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(trimmed, "["):
		return decodePairs[K, V](trimmed)
	case strings.HasPrefix(trimmed, "{"):
		var legacy map[K]V
		if err := json.Unmarshal([]byte(trimmed), &legacy); err != nil {
			return nil, err
		}
		if legacy == nil {
			legacy = make(map[K]V)
		}
		return legacy, nil
	default:
		return nil, errUnknownEncoding
	}
}

func decodePairs[K ~string, V any](raw string) (map[K]V, error) {
	var pairs [][]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		return nil, err
	}
	out := make(map[K]V, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("pair %d: expected 2 elements, got %d", i, len(pair))
		}
		var key K
		if err := json.Unmarshal(pair[0], &key); err != nil {
			return nil, fmt.Errorf("pair %d key: %w", i, err)
		}
		var value V
		if err := json.Unmarshal(pair[1], &value); err != nil {
			return nil, fmt.Errorf("pair %d value: %w", i, err)
		}
		out[key] = value
	}
	return out, nil
}

func encodeAuth(a model.AuthState) (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeAuth(raw string) (model.AuthState, error) {
	var a model.AuthState
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return model.Unauthenticated(), err
	}
	// A session without a user is treated as signed out
	if _, ok := a.UserID(); !ok {
		return model.Unauthenticated(), nil
	}
	return a, nil
}
