// Package registry implements the process-global state described in §4.D:
// a name->shard-constructor map, enum/object type tables (with reverse
// lookup by name), run-loop and exit callbacks, named global wires, and a
// weak-ref observer list notified on every registration for late binding.
//
// Lifecycle is init-on-first-use (a package-level singleton, guarded by
// sync.Once) with teardown running registered exit callbacks in
// registration order, per §9 Design Notes ("Global state").
//
// © 2025 shardmesh authors. MIT License.
package registry

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// ShardConstructor builds a fresh, unconfigured shard instance. The
// concrete Shard interface lives in package pkg to avoid an import cycle
// (pkg depends on registry, not the reverse); constructors are therefore
// typed as `func() any` and the caller type-asserts to pkg.Shard.
type ShardConstructor func() any

// ObjectTypeInfo and EnumTypeInfo describe a registered domain type.
type ObjectTypeInfo struct {
	Vendor, TypeID int32
	Name           string
}

type EnumTypeInfo struct {
	Vendor, TypeID int32
	Name           string
	Labels         map[int64]string
}

// Observer is notified synchronously after every successful registration,
// for late binding of shards/types discovered after an observer subscribed.
// Observers are held weakly: the registry stores a non-owning func value and
// relies on RegisterObserver callers to Unobserve before going away (Go has
// no native weak pointers usable here without generics tricks, so "weak" is
// enforced by contract rather than the runtime -- documented explicitly
// because §4.D calls for a weak-ref set).
type Observer func(kind string, name string)

// Registry is the process-wide shard/type registry.
type Registry struct {
	mu sync.RWMutex

	shardCtors map[string]ShardConstructor

	objectsByID   map[int64]ObjectTypeInfo // key = vendor<<32|typeID
	objectsByName map[string]ObjectTypeInfo

	enumsByID   map[int64]EnumTypeInfo
	enumsByName map[string]EnumTypeInfo

	runLoopCallbacks []func()
	exitCallbacks    []func()
	globalWires      map[string]any // pkg.Wire, stored as any to avoid the cycle

	observers   map[int]Observer
	observerSeq int

	strings *StringTable

	logger *zap.Logger
}

var (
	instance *Registry
	once     sync.Once
)

// Default returns the process-wide singleton, constructing it on first use.
func Default() *Registry {
	once.Do(func() {
		instance = New(zap.NewNop())
	})
	return instance
}

// New constructs a standalone registry -- used by tests that want isolation
// from the process-wide singleton.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		shardCtors:    make(map[string]ShardConstructor),
		objectsByID:   make(map[int64]ObjectTypeInfo),
		objectsByName: make(map[string]ObjectTypeInfo),
		enumsByID:     make(map[int64]EnumTypeInfo),
		enumsByName:   make(map[string]EnumTypeInfo),
		globalWires:   make(map[string]any),
		observers:     make(map[int]Observer),
		strings:       NewStringTable(),
		logger:        logger,
	}
}

func objKey(vendor, typeID int32) int64 {
	return int64(vendor)<<32 | int64(uint32(typeID))
}

// RegisterShard is idempotent-overwrite with a warning, per §4.D.
func (r *Registry) RegisterShard(name string, ctor ShardConstructor) {
	r.mu.Lock()
	if _, exists := r.shardCtors[name]; exists {
		r.logger.Warn("shard re-registered, overwriting", zap.String("name", name))
	}
	r.shardCtors[name] = ctor
	r.mu.Unlock()
	r.notify("shard", name)
}

// LookupShard returns the constructor registered under name.
func (r *Registry) LookupShard(name string) (ShardConstructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.shardCtors[name]
	return ctor, ok
}

// ShardNames returns a snapshot of every registered shard name.
func (r *Registry) ShardNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.shardCtors))
	for n := range r.shardCtors {
		out = append(out, n)
	}
	return out
}

// RegisterObjectType registers an Object vendor/type pair with a reverse
// lookup by name.
func (r *Registry) RegisterObjectType(info ObjectTypeInfo) {
	key := objKey(info.Vendor, info.TypeID)
	r.mu.Lock()
	if _, exists := r.objectsByID[key]; exists {
		r.logger.Warn("object type re-registered, overwriting", zap.String("name", info.Name))
	}
	r.objectsByID[key] = info
	r.objectsByName[info.Name] = info
	r.mu.Unlock()
	r.notify("object", info.Name)
}

func (r *Registry) ObjectTypeByID(vendor, typeID int32) (ObjectTypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.objectsByID[objKey(vendor, typeID)]
	return info, ok
}

func (r *Registry) ObjectTypeByName(name string) (ObjectTypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.objectsByName[name]
	return info, ok
}

// RegisterEnumType registers an Enum vendor/type pair with its value labels.
func (r *Registry) RegisterEnumType(info EnumTypeInfo) {
	key := objKey(info.Vendor, info.TypeID)
	r.mu.Lock()
	if _, exists := r.enumsByID[key]; exists {
		r.logger.Warn("enum type re-registered, overwriting", zap.String("name", info.Name))
	}
	r.enumsByID[key] = info
	r.enumsByName[info.Name] = info
	r.mu.Unlock()
	r.notify("enum", info.Name)
}

func (r *Registry) EnumTypeByID(vendor, typeID int32) (EnumTypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.enumsByID[objKey(vendor, typeID)]
	return info, ok
}

func (r *Registry) EnumTypeByName(name string) (EnumTypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.enumsByName[name]
	return info, ok
}

// RegisterRunLoopCallback / RegisterExitCallback append process-lifetime
// hooks. Exit callbacks run in registration order during Shutdown.
func (r *Registry) RegisterRunLoopCallback(fn func()) {
	r.mu.Lock()
	r.runLoopCallbacks = append(r.runLoopCallbacks, fn)
	r.mu.Unlock()
}

func (r *Registry) RegisterExitCallback(fn func()) {
	r.mu.Lock()
	r.exitCallbacks = append(r.exitCallbacks, fn)
	r.mu.Unlock()
}

// RunLoopTick invokes every registered run-loop callback once.
func (r *Registry) RunLoopTick() {
	r.mu.RLock()
	cbs := append([]func(){}, r.runLoopCallbacks...)
	r.mu.RUnlock()
	for _, cb := range cbs {
		cb()
	}
}

// Shutdown runs every registered exit callback in registration order, per
// §9 ("teardown runs registered exit callbacks in registration order").
func (r *Registry) Shutdown() {
	r.mu.RLock()
	cbs := append([]func(){}, r.exitCallbacks...)
	r.mu.RUnlock()
	for _, cb := range cbs {
		cb()
	}
}

// RegisterGlobalWire / GlobalWire manage the named global wire table.
func (r *Registry) RegisterGlobalWire(name string, wire any) {
	r.mu.Lock()
	r.globalWires[name] = wire
	r.mu.Unlock()
	r.notify("wire", name)
}

func (r *Registry) GlobalWire(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.globalWires[name]
	return w, ok
}

// RegisterObserver subscribes fn to every future registration event and
// returns a token usable with Unobserve.
func (r *Registry) RegisterObserver(fn Observer) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observerSeq++
	id := r.observerSeq
	r.observers[id] = fn
	return id
}

func (r *Registry) Unobserve(token int) {
	r.mu.Lock()
	delete(r.observers, token)
	r.mu.Unlock()
}

// notify fans a registration event out to observers. An observer whose
// backing subscriber has gone away is expected to have called Unobserve;
// there is nothing further to "skip" at this layer since Go observers are
// plain funcs rather than weak pointers to an object that could expire
// mid-call.
func (r *Registry) notify(kind, name string) {
	r.mu.RLock()
	obs := make([]Observer, 0, len(r.observers))
	for _, o := range r.observers {
		obs = append(obs, o)
	}
	r.mu.RUnlock()
	for _, o := range obs {
		o(kind, name)
	}
}

// Strings exposes the compressed-string table described in §6.
func (r *Registry) Strings() *StringTable { return r.strings }

// Logger returns the registry's diagnostic logger.
func (r *Registry) Logger() *zap.Logger { return r.logger }

// fastKeyHash is used by StringTable's secondary dedup index (see
// strings.go) to avoid repeated CRC32 recomputation when the same raw bytes
// are interned from multiple call sites.
func fastKeyHash(b []byte) uint64 { return xxhash.Sum64(b) }
