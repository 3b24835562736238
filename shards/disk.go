package shards

// disk.go implements a badger-backed persistence plugin for the Object
// kind: DiskLoad reads a byte payload from an embedded BadgerDB keyspace and
// wraps it as an Object Value (vendor/type identifying the "disk blob"
// descriptor), DiskStore writes one back. Both route the actual I/O through
// pkg.AsyncActivate so a wire's coroutine suspends instead of blocking the
// mesh's single driving goroutine -- the same "don't block the tick thread"
// discipline examples/disk_eject/main.go applies by doing Badger I/O inside
// an HTTP handler goroutine rather than inline in the cache hot path.
//
// Concurrent DiskLoad calls for the same key are de-duplicated with
// singleflight, adapted from the teacher's loader.go: where the teacher
// de-dupes concurrent cache misses for the same logical key across
// goroutines, here the same mechanism collapses concurrent wire activations
// reading the same disk key so only one Badger transaction executes.
//
// © 2025 shardmesh authors. MIT License.

import (
	badger "github.com/dgraph-io/badger/v4"
	"golang.org/x/sync/singleflight"

	"github.com/shardmesh/shardmesh/internal/value"
	"github.com/shardmesh/shardmesh/internal/xtype"
	"github.com/shardmesh/shardmesh/pkg"
)

// vendorDisk identifies the disk-blob Object descriptor's (vendor, type)
// pair for xtype.Type's Object refinement.
const (
	vendorDisk int32 = 1
	typeBlob   int32 = 1
)

// DiskStore opens and owns one Badger keyspace, shared by a DiskLoad/DiskSave
// shard pair constructed against it.
type DiskStore struct {
	db    *badger.DB
	group singleflight.Group
}

// OpenDiskStore opens (or creates) a Badger database rooted at dir.
func OpenDiskStore(dir string) (*DiskStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &DiskStore{db: db}, nil
}

// Close releases the underlying Badger database.
func (s *DiskStore) Close() error { return s.db.Close() }

func (s *DiskStore) get(key string) ([]byte, error) {
	v, err, _ := s.group.Do(key, func() (any, error) {
		var out []byte
		err := s.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(key))
			if err != nil {
				return err
			}
			return item.Value(func(b []byte) error {
				out = append([]byte(nil), b...)
				return nil
			})
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *DiskStore) put(key string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// blobObjectType is the Object Type descriptor a DiskLoad/DiskSave pair
// exchanges: a blob's Data is raw Bytes, so the structural Type carries no
// further refinement beyond (Vendor, TypeID).
var blobObjectType = xtype.Type{Kind: xtype.KindObject, Vendor: vendorDisk, TypeID: typeBlob}

func newBlobObject(data []byte) value.Value {
	return value.NewObject(vendorDisk, typeBlob, data, nil)
}

// NewDiskBlob wraps data as the blob Object Value a DiskSave shard expects
// as input, for callers outside this package constructing a wire by hand.
func NewDiskBlob(data []byte) value.Value { return newBlobObject(data) }

// DiskLoad reads the Bytes keyed by its String input from the store,
// producing a blob Object. A missing key cancels the Flow rather than
// returning None, so a wire author can tell "absent" from "empty" per the
// ActivationError path in §7.
type DiskLoad struct {
	base
	store *DiskStore
}

// NewDiskLoad builds a DiskLoad shard reading from store.
func NewDiskLoad(store *DiskStore) *DiskLoad {
	return &DiskLoad{
		base:  newBase("DiskLoad", []xtype.Type{{Kind: xtype.KindString}}, []xtype.Type{blobObjectType}, nil),
		store: store,
	}
}

func (d *DiskLoad) Activate(ctx *pkg.Context, in value.Value) value.Value {
	if in.Kind != xtype.KindString {
		ctx.CancelFlow("DiskLoad requires a String key")
		return value.None()
	}
	key := in.Str()
	return pkg.AsyncActivate(ctx, pkg.NewAsyncTask(func() (value.Value, error) {
		data, err := d.store.get(key)
		if err != nil {
			return value.None(), err
		}
		return newBlobObject(data), nil
	}))
}

// DiskSave writes its blob Object input under its String key parameter,
// passing the input through unchanged so DiskSave can sit mid-wire.
type DiskSave struct {
	base
	store *DiskStore
}

// NewDiskSave builds a DiskSave shard writing to store under key.
func NewDiskSave(store *DiskStore, key string) *DiskSave {
	return &DiskSave{
		base: newBase("DiskSave", []xtype.Type{blobObjectType}, []xtype.Type{blobObjectType},
			[]pkg.ParamInfo{{DisplayName: "key", Default: value.NewString(key)}}),
		store: store,
	}
}

func (d *DiskSave) Activate(ctx *pkg.Context, in value.Value) value.Value {
	if in.Kind != xtype.KindObject || in.Object().Vendor != vendorDisk {
		ctx.CancelFlow("DiskSave requires a disk blob Object")
		return value.None()
	}
	key := d.param(0).Str()
	data, _ := in.Object().Data.([]byte)
	return pkg.AsyncActivate(ctx, pkg.NewAsyncTask(func() (value.Value, error) {
		if err := d.store.put(key, data); err != nil {
			return value.None(), err
		}
		return in, nil
	}))
}
