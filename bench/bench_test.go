// Package bench provides reproducible micro-benchmarks for shardmesh.
// Run via:  go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// We measure:
//   1. ValueClone   – deep clone cost for a representative Sequence Value
//   2. ValueHash    – structural hash cost for the same Value
//   3. ComposeWire  – compose-time validation cost for a short arithmetic wire
//   4. MeshTick     – scheduling + one tick of N independent arithmetic wires
//
// Results are printed in ns/op + alloc/op so CI can diff via benchstat.
//
// NOTE: Unit tests live alongside their packages; this file is only for
// performance.
//
// © 2025 shardmesh authors. MIT License.

package bench

import (
	"testing"
	"time"

	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
	"github.com/shardmesh/shardmesh/pkg"
	"github.com/shardmesh/shardmesh/shards"
)

func sampleSequence() value.Value {
	elems := make([]value.Value, 64)
	for i := range elems {
		elems[i] = value.NewInt(int64(i))
	}
	return value.NewSequence(elems...)
}

func BenchmarkValueClone(b *testing.B) {
	v := sampleSequence()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		value.Clone(v)
	}
}

func BenchmarkValueHash(b *testing.B) {
	v := sampleSequence()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		value.Hash(v)
	}
}

func arithmeticWire() *pkg.Wire {
	return pkg.NewWire(
		[]pkg.Shard{shards.NewConst(value.NewInt(21)), shards.NewMathMultiply(value.NewInt(2))},
		pkg.WithWireName("bench-arithmetic"),
	)
}

func BenchmarkComposeWire(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := arithmeticWire()
		pkg.NewComposer(nil).ComposeWire(w, xtype.None)
	}
}

func BenchmarkMeshTick(b *testing.B) {
	const wires = 1024
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		start := time.Unix(0, 0)
		mesh := pkg.NewMesh(start)
		for j := 0; j < wires; j++ {
			w := arithmeticWire()
			pkg.NewComposer(nil).ComposeWire(w, xtype.None)
			mesh.Schedule(w, value.None())
		}
		mesh.Tick(start)
		mesh.Terminate()
	}
}
