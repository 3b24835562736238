package main

// wiregen.go is a tiny helper utility to generate deterministic wire
// descriptor datasets for standalone benchmarking of shardmesh (outside
// `go test`). It emits newline-delimited JSON records describing a
// single-input arithmetic wire [Const seed, Math.<op> operand], which an
// external load-testing harness can decode and build with
// shards.NewConst/shards.NewMathAdd etc. (bench/bench_test.go builds its
// wires in code and does not read this output).
//
// Usage:
//   go run ./tools/wiregen -n 1000000 -dist=zipf -seed=42 -out wires.jsonl
//
// Flags:
//   -n       number of wire descriptors to generate (default 1e6)
//   -dist    operand distribution: "uniform" or "zipf" (default uniform)
//   -zipfs   Zipf s parameter (>1)  (default 1.2)
//   -zipfv   Zipf v parameter (>0)  (default 1.0)
//   -seed    RNG seed (default current time)
//   -out     output file (default stdout)
//
// The program is embarrassingly simple but placed under version control so
// that any contributor can regenerate the exact dataset used in performance
// regression hunting.
//
// © 2025 shardmesh authors. MIT License.

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

// wireSpec is the JSON shape one generated line decodes into.
type wireSpec struct {
	Op      string `json:"op"`
	Seed    int64  `json:"seed"`
	Operand int64  `json:"operand"`
}

var ops = []string{"Add", "Subtract", "Multiply", "Divide"}

func main() {
	var (
		n       = flag.Int("n", 1_000_000, "number of wire descriptors to generate")
		dist    = flag.String("dist", "uniform", "operand distribution: uniform or zipf")
		zipfS   = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV   = flag.Float64("zipfv", 1.0, "zipf v parameter (>0)")
		seedVal = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		outPath = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seedVal))

	var gen func() uint64
	switch *dist {
	case "uniform":
		gen = rnd.Uint64
	case "zipf":
		if *zipfS <= 1.0 || *zipfV <= 0 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >0")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, ^uint64(0))
		gen = z.Uint64
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", *dist)
		os.Exit(1)
	}

	var out *os.File
	var err error
	if *outPath == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	enc := json.NewEncoder(w)
	for i := 0; i < *n; i++ {
		spec := wireSpec{
			Op:      ops[i%len(ops)],
			Seed:    int64(gen() % (1 << 20)),
			Operand: int64(gen()%1000) + 1,
		}
		if err := enc.Encode(spec); err != nil {
			fmt.Fprintln(os.Stderr, "encode error:", err)
			os.Exit(1)
		}
	}
}
