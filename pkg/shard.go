// Package shardmesh implements the execution kernel of the dataflow runtime:
// the Shard/Wire/Mesh vocabulary, compose-time validation, the variable
// environment, and the cooperative scheduler built on internal/fiber.
//
// © 2025 shardmesh authors. MIT License.
package shardmesh

import (
	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
)

// ParamInfo describes one declared parameter of a Shard: its display name,
// help text, the set of Types an assigned Value must match, and the default
// Value installed before any SetParam call.
type ParamInfo struct {
	DisplayName  string
	Help         string
	AllowedTypes []xtype.Type
	Default      value.Value
}

// Shard is the minimal capability every shard variant must implement --
// §4.C's "tagged variant when the set is closed" rendered as a required
// interface plus a family of optional capability interfaces a concrete shard
// may additionally satisfy (ComposeHook, Warmer, Cleaner, ...), following the
// same io.Closer-style optional-interface idiom the teacher's metricsSink /
// WeightFn pattern uses for pluggable behavior.
//
// ShardName satisfies internal/value.ShardHandle so a Value may carry a
// ShardRef back to any concrete Shard without this package or internal/value
// needing to know about each other's concrete types.
type Shard interface {
	ShardName() string
	InputTypes() []xtype.Type
	OutputTypes() []xtype.Type
	Parameters() []ParamInfo
	SetParam(idx int, v value.Value) error
	GetParam(idx int) (value.Value, error)
	// Activate runs the shard against one input Value, returning its output.
	// Flow-control redirection (Return/Restart/Stop/Rebase/Error) is reported
	// by mutating the Flow held on ctx rather than through the return value.
	Activate(ctx *Context, input value.Value) value.Value
}

// ComposeHook is the optional compose-time specialisation hook described in
// §4.C. When a shard implements it, Compose is given the chance to inspect
// the concrete input Type and the next shard's input Types before producing
// its own output Type, and may mutate the shard's internal state to
// specialise for that input (e.g. a generic Math shard picking a lane
// width).
type ComposeHook interface {
	Compose(id *InstanceData) (xtype.Type, error)
}

// Warmer is the optional one-time preparation hook run once per wire warmup.
type Warmer interface {
	Warmup(ctx *Context) error
}

// Cleaner is the optional per-shard teardown hook, invoked in reverse shard
// order during Wire.cleanup.
type Cleaner interface {
	Cleanup()
}

// ExposedVariablesProvider declares the names a shard's Activate call may
// create/overwrite for later shards or outer scopes to observe.
type ExposedVariablesProvider interface {
	ExposedVariables() []string
}

// RequiredVariablesProvider declares the names a shard's Activate call reads;
// the Composer resolves each against the exposed∪inherited scope.
type RequiredVariablesProvider interface {
	RequiredVariables() []string
}

// Hasher is the optional deterministic content-hash hook some shards (e.g.
// pure functional operators memoised by a caller) may implement.
type Hasher interface {
	Hash() uint64
}

// StateGetter exposes shard-internal state for diagnostics/inspection
// tooling. Nothing in this module calls GetState.
type StateGetter interface {
	GetState() any
}

// Destroyer is called once, at shard-instance teardown, distinct from the
// per-wire-run Cleaner.
type Destroyer interface {
	Destroy()
}

// InstanceData is built by the Composer for each shard in turn and passed to
// ComposeHook.Compose when a shard implements it (§4.F step 3).
type InstanceData struct {
	// InputType is the concrete Type flowing into this shard.
	InputType xtype.Type
	// NextInputTypes lets an optionally-passthrough shard negotiate its
	// output Type against what the following shard actually expects.
	NextInputTypes []xtype.Type
	// Exposed is the accumulated exposed-variable scope, inherited set
	// already unioned in, available for RequiredVariablesProvider lookups.
	Exposed *Scope
	// Required accumulates variable names this and prior shards read,
	// together with the Type each was matched against.
	Required *RequiredSet
	// WorkerHint signals that this wire intends to run Activate off the
	// mesh's tick goroutine via asyncActivate, letting a shard choose a
	// worker-safe code path.
	WorkerHint bool
}

// Scope records exposed-variable name -> Type bindings visible to shards
// later in a wire (and, once a wire itself exposes a variable, to outer
// wires per §4.E).
type Scope struct {
	entries map[string]xtype.Type
	origin  map[string]string // name -> declaring shard, for diagnostics
}

// NewScope constructs an empty Scope, optionally inheriting bindings from a
// parent (outer wire) scope.
func NewScope(parent *Scope) *Scope {
	s := &Scope{entries: make(map[string]xtype.Type), origin: make(map[string]string)}
	if parent != nil {
		for k, v := range parent.entries {
			s.entries[k] = v
		}
		for k, v := range parent.origin {
			s.origin[k] = v
		}
	}
	return s
}

// Declare records that shardName exposes name with Type t, overwriting any
// prior declaration under the same name (Set/Ref/Update/Push exclusion
// checking happens separately in compose.go, before Declare is called).
func (s *Scope) Declare(name string, t xtype.Type, shardName string) {
	s.entries[name] = t
	s.origin[name] = shardName
}

// Lookup resolves name against the scope.
func (s *Scope) Lookup(name string) (xtype.Type, bool) {
	t, ok := s.entries[name]
	return t, ok
}

// Origin returns which shard declared name, if any.
func (s *Scope) Origin(name string) (string, bool) {
	o, ok := s.origin[name]
	return o, ok
}

// RequiredSet accumulates variable names read by shards during compose,
// deduplicating against names the wire itself exposes (§4.F step 6: "record
// into the required set unless we ourselves expose the same name").
type RequiredSet struct {
	names map[string]xtype.Type
}

// NewRequiredSet constructs an empty aggregator.
func NewRequiredSet() *RequiredSet { return &RequiredSet{names: make(map[string]xtype.Type)} }

// Add records name as required with the Type it was matched against.
func (r *RequiredSet) Add(name string, t xtype.Type) { r.names[name] = t }

// Names returns a snapshot of every required variable name.
func (r *RequiredSet) Names() []string {
	out := make([]string, 0, len(r.names))
	for n := range r.names {
		out = append(out, n)
	}
	return out
}
