package shardmesh

// debug.go exposes a Mesh's live state as a small JSON-friendly snapshot and
// an http.Handler serving it, the counterpart to the teacher's
// /debug/arena-cache/snapshot endpoint that cmd/arena-cache-inspect polls.
// A hosting program mounts DebugHandler next to net/http/pprof so the same
// cmd/shardmesh-inspect CLI pattern (fetch JSON, optionally pull a pprof
// profile) works against a running mesh.
//
// © 2025 shardmesh authors. MIT License.

import (
	"encoding/json"
	"net/http"

	"github.com/shardmesh/shardmesh/internal/meshring"
)

// WireSnapshot describes one active wire's externally visible state.
type WireSnapshot struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Users int    `json:"users"`
}

// Snapshot describes a Mesh's externally visible state at one instant.
type Snapshot struct {
	ActiveWires int            `json:"active_wires"`
	Wires       []WireSnapshot `json:"wires"`
}

// Snapshot walks the active ring and returns a point-in-time JSON-ready view
// of every scheduled wire, in schedule order.
func (m *Mesh) Snapshot() Snapshot {
	snap := Snapshot{}
	m.active.Each(func(n *meshring.Node[*Wire]) bool {
		w := n.Value
		snap.Wires = append(snap.Wires, WireSnapshot{
			Name:  w.name,
			State: w.state.String(),
			Users: w.users,
		})
		return true
	})
	snap.ActiveWires = len(snap.Wires)
	return snap
}

// DebugHandler serves m's current Snapshot as indented JSON, the same shape
// cmd/shardmesh-inspect decodes.
func (m *Mesh) DebugHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(m.Snapshot())
	})
}
