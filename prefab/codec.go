package prefab

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Recognized snapshot file extensions. Both decode identically.
const (
	Extension     = ".prefab"
	ExtensionLong = ".prefab.yaml"
)

// HasExtension reports whether the path carries a recognized snapshot
// extension.
func HasExtension(path string) bool {
	return strings.HasSuffix(path, Extension) || strings.HasSuffix(path, ExtensionLong)
}

// DecodeError reports a failure turning bytes into a Snapshot.
type DecodeError struct {
	// TypeName is set when the input names a component type the registry has
	// no entry for; Err carries every other cause.
	TypeName string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.TypeName != "" {
		return fmt.Sprintf("decode prefab: unknown type %q", e.TypeName)
	}
	return fmt.Sprintf("decode prefab: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode serializes a snapshot as a UTF-8 text document: a map keyed by
// decimal local ids, each value a map from type name to that type's
// self-describing form. Byte-for-byte round-trip stability is not guaranteed
// (key order may normalize); value equality is.
func Encode(snap *Snapshot) ([]byte, error) {
	doc := make(yaml.MapSlice, 0, len(snap.Entities))
	for _, entity := range snap.Entities {
		components := make(yaml.MapSlice, 0, len(entity.Values))
		for _, v := range entity.Values {
			components = append(components, yaml.MapItem{Key: v.TypeName, Value: v.Data})
		}
		// MapSlice keys must be strings; local ids go out in decimal form.
		doc = append(doc, yaml.MapItem{Key: strconv.FormatUint(uint64(entity.LocalId), 10), Value: components})
	}
	return yaml.Marshal(doc)
}

// localId parses an outer document key. Quoted and unquoted decimal forms are
// both accepted since the YAML parser surfaces them as different Go types.
func localId(key any) (uint32, error) {
	switch k := key.(type) {
	case string:
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("entity id %q: %w", k, err)
		}
		return uint32(id), nil
	case uint64:
		if k > math.MaxUint32 {
			return 0, fmt.Errorf("entity id %d out of range", k)
		}
		return uint32(k), nil
	default:
		return 0, fmt.Errorf("entity id %v: not a decimal id", key)
	}
}

// Decode parses a snapshot document, resolving every component type through
// the registry. Entities come out in ascending local id order and each
// entity's values in type name order.
func Decode(registry *Registry, data []byte) (*Snapshot, error) {
	var doc map[any]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Err: err}
	}

	raw := make(map[uint32]map[string]any, len(doc))
	for key, components := range doc {
		id, err := localId(key)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		raw[id] = components
	}

	ids := make([]uint32, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	snap := &Snapshot{Entities: make([]SnapshotEntity, 0, len(raw))}
	for _, id := range ids {
		names := make([]string, 0, len(raw[id]))
		for name := range raw[id] {
			names = append(names, name)
		}
		slices.Sort(names)

		entity := SnapshotEntity{LocalId: id}
		for _, name := range names {
			reg := registry.Lookup(name)
			if reg == nil {
				return nil, &DecodeError{TypeName: name}
			}

			encoded, err := yaml.Marshal(raw[id][name])
			if err != nil {
				return nil, &DecodeError{Err: fmt.Errorf("component %s: %w", name, err)}
			}
			v, err := reg.decode(encoded)
			if err != nil {
				return nil, &DecodeError{Err: fmt.Errorf("component %s: %w", name, err)}
			}
			entity.Values = append(entity.Values, Value{TypeName: name, Data: v})
		}
		snap.Entities = append(snap.Entities, entity)
	}
	return snap, nil
}
