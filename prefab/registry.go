package prefab

import (
	"reflect"

	"github.com/goccy/go-yaml"

	"github.com/plus3/prefab/world"
)

// ExtractFunc reads a cloned component value from a live record.
// It returns false if the record does not carry the type.
type ExtractFunc func(*world.World, world.RecordId) (any, bool)

// InsertFunc attaches or applies a component value onto a live record.
type InsertFunc func(*world.World, world.RecordId, any)

// MapRecordsFunc rewrites record references held inside the component values
// of the given records, translating snapshot-local ids through the remap
// table. It runs once per write pass, after every create and apply.
type MapRecordsFunc func(*world.World, *RemapTable, []world.RecordId)

// Registration is the function table the prefab machinery uses to handle one
// component type without knowing its static type.
type Registration struct {
	name string
	typ  reflect.Type

	component    bool
	extract      ExtractFunc
	applyInsert  InsertFunc
	customInsert InsertFunc
	mapRecords   MapRecordsFunc
	decode       func([]byte) (any, error)
}

// Name returns the stable type name the registration is keyed by.
func (r *Registration) Name() string {
	return r.name
}

// Type returns the concrete Go type behind the registration.
func (r *Registration) Type() reflect.Type {
	return r.typ
}

// Registry maps stable component type names to their function tables.
// It must not change while a maintenance pass is running.
type Registry struct {
	byName map[string]*Registration
	byType map[reflect.Type]*Registration
	order  []*Registration
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Registration),
		byType: make(map[reflect.Type]*Registration),
	}
}

// Lookup returns the registration for a type name, or nil.
func (r *Registry) Lookup(name string) *Registration {
	return r.byName[name]
}

// Of returns the registration for a value's dynamic type, or nil.
// Pointer and value forms resolve to the same registration.
func (r *Registry) Of(v any) *Registration {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return r.byType[t]
}

// ValueOf wraps a typed component in a Value, resolving its registered name.
// It returns false if the value's type is not registered.
func (r *Registry) ValueOf(v any) (Value, bool) {
	reg := r.Of(v)
	if reg == nil {
		return Value{}, false
	}
	return Value{TypeName: reg.name, Data: v}, true
}

// RegisterOption customizes a registration.
type RegisterOption func(*Registration)

// WithName overrides the default type-derived name.
func WithName(name string) RegisterOption {
	return func(r *Registration) { r.name = name }
}

// WithExtract replaces the default capture function used by the Builder.
func WithExtract(fn ExtractFunc) RegisterOption {
	return func(r *Registration) { r.extract = fn }
}

// WithCustomInsert installs an insert function that fully owns attaching the
// value to a record, overriding the generic apply-or-insert path.
func WithCustomInsert(fn InsertFunc) RegisterOption {
	return func(r *Registration) { r.customInsert = fn }
}

// WithMapRecords marks the type as referencing other records and installs the
// rewrite function invoked after every write pass.
func WithMapRecords(fn MapRecordsFunc) RegisterOption {
	return func(r *Registration) { r.mapRecords = fn }
}

// DataOnly registers a serializable type that is not a component. Writing a
// snapshot that carries it fails with UnregisteredComponentError.
func DataOnly() RegisterOption {
	return func(r *Registration) { r.component = false }
}

// Register adds a component type to the registry and returns its
// registration. The default name is the Go type's string form, e.g.
// "prefab.Parent"; it must be unique within the registry.
func Register[T any](r *Registry, opts ...RegisterOption) *Registration {
	typ := reflect.TypeFor[T]()
	reg := &Registration{
		name:      typ.String(),
		typ:       typ,
		component: true,
	}

	reg.extract = func(w *world.World, id world.RecordId) (any, bool) {
		v, ok := w.Value(id, reg.name)
		if !ok {
			return nil, false
		}
		return CloneValue(v), true
	}
	reg.applyInsert = func(w *world.World, id world.RecordId, v any) {
		if current, ok := w.Value(id, reg.name); ok {
			ApplyValue(current, v)
			return
		}
		w.Attach(id, reg.name, CloneValue(v))
	}
	reg.decode = func(data []byte) (any, error) {
		out := new(T)
		if err := yaml.Unmarshal(data, out); err != nil {
			return nil, err
		}
		return out, nil
	}

	for _, opt := range opts {
		opt(reg)
	}

	if _, taken := r.byName[reg.name]; taken {
		panic("prefab: type name " + reg.name + " registered twice")
	}
	r.byName[reg.name] = reg
	r.byType[typ] = reg
	r.order = append(r.order, reg)
	return reg
}
