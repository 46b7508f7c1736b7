package descriptor

import (
	"sort"
	"sync"

	"github.com/turtacn/MolDesc-Engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Registration input variants
// ─────────────────────────────────────────────────────────────────────────────

// Input is a closed-set registration argument: exactly one of a single unit,
// a preset factory, or a nested group.  Construct values with Unit, Preset,
// Group, or Bundle; the zero value is invalid and rejected by Register.
type Input struct {
	unit    Descriptor
	factory func() []Descriptor
	items   []Input
	grouped bool
}

// Unit wraps a single descriptor for registration.
func Unit(d Descriptor) Input { return Input{unit: d} }

// Preset wraps a factory producing a standard set of descriptors, registered
// in the order the factory returns them.
func Preset(factory func() []Descriptor) Input { return Input{factory: factory} }

// Group nests any mix of registration inputs; flattening preserves order.
func Group(items ...Input) Input { return Input{items: items, grouped: true} }

// Bundle wraps a named collection of inputs, registered in sorted name order
// so that map iteration does not make column order nondeterministic.
func Bundle(named map[string]Input) Input {
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)
	items := make([]Input, 0, len(named))
	for _, n := range names {
		items = append(items, named[n])
	}
	return Input{items: items, grouped: true}
}

// RegisterOptions controls registration behaviour.
type RegisterOptions struct {
	// Ignore3D silently skips any unit whose dependency closure requires 3D
	// coordinates instead of registering it.
	Ignore3D bool
}

// ─────────────────────────────────────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────────────────────────────────────

// Registry holds the ordered set of registered descriptors and the aggregate
// structure-preparation flags folded over every registered unit and its
// transitive dependencies.  Registration order defines output column order.
//
// Registration happens at configuration time; during evaluation the Registry
// is read-only and safely shared across workers.
type Registry struct {
	mu     sync.RWMutex
	units  []Descriptor
	byName map[string]Descriptor

	explicitH  bool
	kekulized  bool
	requires3D bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Descriptor)}
}

// Register flattens the input into individual units and registers each one.
// Duplicate canonical names and malformed inputs are configuration errors.
// With opts.Ignore3D set, units whose dependency closure needs 3D
// coordinates are skipped silently.
func (r *Registry) Register(in Input, opts RegisterOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(in, opts)
}

// MustRegister panics on registration failure.  Intended for preset wiring
// in main(), where a bad configuration is always fatal.
func (r *Registry) MustRegister(in Input, opts RegisterOptions) {
	if err := r.Register(in, opts); err != nil {
		panic(err)
	}
}

func (r *Registry) register(in Input, opts RegisterOptions) error {
	switch {
	case in.unit != nil:
		return r.registerOne(in.unit, false, opts)
	case in.factory != nil:
		for _, d := range in.factory() {
			if err := r.registerOne(d, false, opts); err != nil {
				return err
			}
		}
		return nil
	case in.grouped:
		for _, item := range in.items {
			if err := r.register(item, opts); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.InvalidRegistration(
			"input is not a unit, preset, or group; construct it with Unit, Preset, Group, or Bundle")
	}
}

// registerOne adds a unit to the registry.  With checkOnly set, the unit's
// requirement flags and dependencies are folded into the aggregate state but
// the unit does not become an output column; this is how dependency-only
// units contribute to preparation flags without appearing in results.
func (r *Registry) registerOne(d Descriptor, checkOnly bool, opts RegisterOptions) error {
	if d == nil {
		return errors.InvalidRegistration("cannot register a nil descriptor")
	}
	if opts.Ignore3D && closureRequires3D(d) {
		return nil
	}

	if !checkOnly {
		name := d.Name()
		if name == "" {
			return errors.InvalidRegistration("descriptor name must not be empty")
		}
		if _, dup := r.byName[name]; dup {
			return errors.DuplicateDescriptor(name)
		}
		r.units = append(r.units, d)
		r.byName[name] = d
	}

	r.explicitH = r.explicitH || d.RequiresExplicitHydrogens()
	r.kekulized = r.kekulized || d.RequiresKekulized()
	r.requires3D = r.requires3D || d.Requires3D()

	for _, dep := range sortedDependencies(d) {
		if dep == nil {
			continue
		}
		if err := r.registerOne(dep, true, opts); err != nil {
			return err
		}
	}
	return nil
}

// closureRequires3D reports whether d or any transitive dependency requires
// 3D coordinates.
func closureRequires3D(d Descriptor) bool {
	if d.Requires3D() {
		return true
	}
	for _, dep := range d.Dependencies() {
		if dep != nil && closureRequires3D(dep) {
			return true
		}
	}
	return false
}

// sortedDependencies returns d's dependencies in deterministic parameter
// order.
func sortedDependencies(d Descriptor) []Descriptor {
	deps := d.Dependencies()
	if len(deps) == 0 {
		return nil
	}
	params := make([]string, 0, len(deps))
	for p := range deps {
		params = append(params, p)
	}
	sort.Strings(params)
	out := make([]Descriptor, 0, len(deps))
	for _, p := range params {
		out = append(out, deps[p])
	}
	return out
}

// Reset clears the registered units, the name lookup, and all aggregate
// flags.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units = nil
	r.byName = make(map[string]Descriptor)
	r.explicitH, r.kekulized, r.requires3D = false, false, false
}

// Len returns the number of registered output units.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}

// Descriptors returns the registered units in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, len(r.units))
	copy(out, r.units)
	return out
}

// Names returns the canonical names of the registered units in registration
// order; these are the output column headers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.units))
	for i, d := range r.units {
		out[i] = d.Name()
	}
	return out
}

// Lookup returns the registered unit with the given canonical name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// RequiresExplicitHydrogens reports the aggregate explicit-hydrogen flag.
func (r *Registry) RequiresExplicitHydrogens() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.explicitH
}

// RequiresKekulized reports the aggregate kekulization flag.
func (r *Registry) RequiresKekulized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.kekulized
}

// Requires3D reports the aggregate 3D-coordinates flag.
func (r *Registry) Requires3D() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.requires3D
}
