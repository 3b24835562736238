package shardmesh

// compose.go implements §4.F: per-wire static validation that walks shards
// in order, threading a previousOutputType, matching it against each
// shard's declared input Types, applying the shard's own compose hook (or
// the §4.C inference rule when absent), and enforcing the Set/Ref/Update/Push
// variable-mutation exclusion table.
//
// © 2025 shardmesh authors. MIT License.

import (
	"fmt"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/shardmesh/shardmesh/internal/xtype"
)

// ValidationCallback is invoked for every compose-time diagnostic, fatal or
// not, letting a caller collect warnings without aborting compose on the
// first one.
type ValidationCallback func(err *ComposeError)

// ComposeResult is the outcome of composing one wire.
type ComposeResult struct {
	Failed   bool
	Message  string
	Output   xtype.Type
	Required []string
}

// Composer threads the per-wire validation walk described in §4.F.
type Composer struct {
	Shared   *Scope // exposed variables inherited from an outer wire, if any
	OnIssue  ValidationCallback
}

// NewComposer constructs a Composer; shared may be nil for a top-level wire.
func NewComposer(shared *Scope) *Composer {
	return &Composer{Shared: shared}
}

// declKind records which variable-mutating shard last declared a given name,
// for the Set/Ref/Update/Push exclusion table.
type declKind int

const (
	declNone declKind = iota
	declSet
	declRef
	declUpdate
	declPush
)

func kindOfShardName(name string) declKind {
	switch name {
	case "Set":
		return declSet
	case "Ref":
		return declRef
	case "Update":
		return declUpdate
	case "Push":
		return declPush
	default:
		return declNone
	}
}

// isExpectShard reports whether name identifies one of the "ExpectXxx" input
// shards used to seed a wire's input Type as Any (§4.F "wire input typing").
func isExpectShard(name string) bool {
	return len(name) > 6 && name[:6] == "Expect"
}

// ComposeWire runs the full per-wire validation walk over shards and returns
// the resulting output Type and required-variable set, recording the
// flow-stopping flag on w by mutating its
// inputType/ignoreInputTypeCheck/flowStopping fields to match
// §4.F's "wire input typing" and "last-shard flow-stopper detection" rules.
func (c *Composer) ComposeWire(w *Wire, dataInputType xtype.Type) ComposeResult {
	c.determineWireInputType(w, dataInputType)

	exposed := NewScope(c.Shared)
	required := NewRequiredSet()
	declared := make(map[string]declKind)

	previousOutputType := w.inputType
	var result ComposeResult

	for i, s := range w.shards {
		name := s.ShardName()

		effective := previousOutputType
		switch name {
		case "Input":
			effective = w.inputType
		case "And", "Or":
			effective = w.inputType // lookahead: substitute original input
		}

		if !matchShardInput(effective, s.InputTypes(), w.ignoreInputTypeCheck) {
			c.report(&ComposeError{
				Shard:   name,
				Message: fmt.Sprintf("input type %s does not match shard's declared input types", effective.Kind),
				Fatal:   !w.ignoreInputTypeCheck,
			})
			if !w.ignoreInputTypeCheck {
				result.Failed = true
				result.Message = fmt.Sprintf("shard %q: input type mismatch", name)
				return result
			}
		}

		var nextInputTypes []xtype.Type
		if i+1 < len(w.shards) {
			nextInputTypes = w.shards[i+1].InputTypes()
		}

		id := &InstanceData{
			InputType:      effective,
			NextInputTypes: nextInputTypes,
			Exposed:        exposed,
			Required:       required,
		}

		var outputType xtype.Type
		if composer, ok := s.(ComposeHook); ok {
			out, err := composer.Compose(id)
			if err != nil {
				c.report(&ComposeError{Shard: name, Message: err.Error(), Fatal: true})
				result.Failed = true
				result.Message = err.Error()
				return result
			}
			outputType = out
		} else {
			outputType = inferOutputType(s, effective)
		}
		previousOutputType = outputType

		if err := c.applyExclusion(name, declared, exposed, s, outputType); err != nil {
			c.report(err)
			result.Failed = true
			result.Message = err.Error()
			return result
		}

		if rp, ok := s.(RequiredVariablesProvider); ok {
			for _, reqName := range rp.RequiredVariables() {
				t, ok := exposed.Lookup(reqName)
				if !ok {
					e := &ComposeError{Shard: name, Message: fmt.Sprintf("required variable %q is not in scope", reqName), Fatal: true}
					c.report(e)
					result.Failed = true
					result.Message = e.Error()
					return result
				}
				if _, selfExposes := declared[reqName]; !selfExposes {
					required.Add(reqName, t)
				}
			}
		}

		if i == len(w.shards)-1 {
			w.flowStopping = name == "Stop" || name == "Restart" || name == "Return" || name == "Fail"
		}
	}

	result.Output = previousOutputType
	result.Required = required.Names()
	return result
}

// matchShardInput implements §4.F step 2: empty-or-[None] input Types accept
// anything; otherwise the previous output Type must structurally match at
// least one declared input Type.
func matchShardInput(prev xtype.Type, declared []xtype.Type, ignoreCheck bool) bool {
	if ignoreCheck {
		return true
	}
	if len(declared) == 0 {
		return true
	}
	if len(declared) == 1 && declared[0].Kind == xtype.KindNone {
		return true
	}
	for _, d := range declared {
		if xtype.Match(prev, d, false, true) {
			return true
		}
	}
	return false
}

// inferOutputType implements §4.C's inference rule for shards without a
// Compose hook.
func inferOutputType(s Shard, previousOutputType xtype.Type) xtype.Type {
	outs := s.OutputTypes()
	if len(outs) == 1 && outs[0].Kind != xtype.KindAny {
		return outs[0]
	}
	if len(outs) == 1 && outs[0].Kind == xtype.KindAny {
		ins := s.InputTypes()
		if len(ins) == 1 && ins[0].Kind != xtype.KindAny {
			return outs[0] // non-passthrough: outputs Any itself
		}
		if len(ins) == 1 && ins[0].Kind == xtype.KindAny {
			return previousOutputType // passthrough
		}
	}
	return previousOutputType
}

// determineWireInputType implements §4.F's "wire input typing" rule.
func (c *Composer) determineWireInputType(w *Wire, dataInputType xtype.Type) {
	if len(w.shards) == 0 {
		w.inputType = dataInputType
		return
	}
	first := w.shards[0]
	if isExpectShard(first.ShardName()) {
		w.inputType = xtype.Any
		w.ignoreInputTypeCheck = true
		return
	}

	ins := first.InputTypes()
	if len(ins) == 1 && ins[0].Kind == xtype.KindNone {
		hasInputShard := false
		for _, s := range w.shards {
			if s.ShardName() == "Input" {
				hasInputShard = true
				break
			}
		}
		if !hasInputShard {
			w.inputType = xtype.Type{Kind: xtype.KindNone}
			return
		}
	}
	w.inputType = dataInputType
}

// applyExclusion enforces the Set/Ref/Update/Push mutation table from §4.F
// and, on success, records the shard's exposedVariables into scope.
func (c *Composer) applyExclusion(shardName string, declared map[string]declKind, scope *Scope, s Shard, outputType xtype.Type) *ComposeError {
	ep, ok := s.(ExposedVariablesProvider)
	if !ok {
		return nil
	}
	kind := kindOfShardName(shardName)
	for _, name := range ep.ExposedVariables() {
		prior, seen := declared[name]
		if seen && kind != declNone {
			if !exclusionOK(kind, prior) {
				return &ComposeError{
					Shard:   shardName,
					Message: fmt.Sprintf("variable %q: %s after %s is not allowed", name, shardName, declKindName(prior)),
					Fatal:   true,
				}
			}
		}
		if kind != declNone {
			declared[name] = kind
		}
		scope.Declare(name, outputType, shardName)
	}
	return nil
}

func exclusionOK(kind, prior declKind) bool {
	switch kind {
	case declSet:
		return prior != declRef
	case declRef:
		return prior == declRef
	case declUpdate:
		return prior != declRef
	case declPush:
		return prior != declRef
	default:
		return true
	}
}

func declKindName(k declKind) string {
	switch k {
	case declSet:
		return "Set"
	case declRef:
		return "Ref"
	case declUpdate:
		return "Update"
	case declPush:
		return "Push"
	default:
		return "none"
	}
}

// report forwards err to OnIssue if set.
func (c *Composer) report(err *ComposeError) {
	if c.OnIssue != nil {
		c.OnIssue(err)
	}
}

// ComposeHash runs ComposeWire and additionally returns a stable digest of
// the resulting shard sequence, output Type and required-variable set,
// letting a caller memoise compose validation across repeated wires of
// identical shape -- the hashed-compose variant the original engine's
// runtime exposes alongside its plain composeWire.
func (c *Composer) ComposeHash(w *Wire, dataInputType xtype.Type) (ComposeResult, uint64) {
	res := c.ComposeWire(w, dataInputType)

	h := xxh3.New()
	for _, s := range w.shards {
		_, _ = h.WriteString(s.ShardName())
		_, _ = h.Write([]byte{0})
	}
	writeU64(h, xtype.DeriveTypeHash(res.Output))

	names := append([]string(nil), res.Required...)
	sort.Strings(names)
	for _, n := range names {
		_, _ = h.WriteString(n)
		_, _ = h.Write([]byte{0})
	}

	return res, h.Sum64()
}

func writeU64(h *xxh3.Hasher, v uint64) {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(b[:])
}
