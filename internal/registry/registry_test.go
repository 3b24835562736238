package registry

import "testing"

func TestRegisterAndLookupShard(t *testing.T) {
	r := New(nil)
	r.RegisterShard("Const", func() any { return "const-instance" })

	ctor, ok := r.LookupShard("Const")
	if !ok {
		t.Fatalf("expected Const to be registered")
	}
	if got := ctor(); got != "const-instance" {
		t.Fatalf("ctor() = %v, want %q", got, "const-instance")
	}

	if _, ok := r.LookupShard("NoSuchShard"); ok {
		t.Fatalf("expected an unregistered name to miss")
	}
}

func TestReRegisterShardOverwritesPriorConstructor(t *testing.T) {
	r := New(nil)
	r.RegisterShard("Const", func() any { return 1 })
	r.RegisterShard("Const", func() any { return 2 })

	ctor, _ := r.LookupShard("Const")
	if got := ctor(); got != 2 {
		t.Fatalf("re-registration should overwrite the constructor, got %v, want 2", got)
	}
}

func TestShardNamesReturnsEverythingRegistered(t *testing.T) {
	r := New(nil)
	r.RegisterShard("A", func() any { return nil })
	r.RegisterShard("B", func() any { return nil })

	names := r.ShardNames()
	if len(names) != 2 {
		t.Fatalf("ShardNames() = %v, want 2 entries", names)
	}
}

func TestObjectTypeRegistrationAndReverseLookup(t *testing.T) {
	r := New(nil)
	info := ObjectTypeInfo{Vendor: 7, TypeID: 3, Name: "disk-blob"}
	r.RegisterObjectType(info)

	got, ok := r.ObjectTypeByID(7, 3)
	if !ok || got.Name != "disk-blob" {
		t.Fatalf("ObjectTypeByID(7,3) = %+v, ok=%v, want %+v", got, ok, info)
	}
	got, ok = r.ObjectTypeByName("disk-blob")
	if !ok || got.Vendor != 7 || got.TypeID != 3 {
		t.Fatalf("ObjectTypeByName(disk-blob) = %+v, ok=%v", got, ok)
	}
}

func TestEnumTypeRegistrationAndReverseLookup(t *testing.T) {
	r := New(nil)
	info := EnumTypeInfo{Vendor: 1, TypeID: 2, Name: "color", Labels: map[int64]string{0: "red"}}
	r.RegisterEnumType(info)

	got, ok := r.EnumTypeByID(1, 2)
	if !ok || got.Labels[0] != "red" {
		t.Fatalf("EnumTypeByID(1,2) = %+v, ok=%v", got, ok)
	}
	if _, ok := r.EnumTypeByName("nope"); ok {
		t.Fatalf("expected a lookup of an unregistered enum name to miss")
	}
}

func TestExitCallbacksRunInRegistrationOrder(t *testing.T) {
	r := New(nil)
	var order []int
	r.RegisterExitCallback(func() { order = append(order, 1) })
	r.RegisterExitCallback(func() { order = append(order, 2) })
	r.RegisterExitCallback(func() { order = append(order, 3) })

	r.Shutdown()

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRunLoopTickInvokesEveryCallback(t *testing.T) {
	r := New(nil)
	count := 0
	r.RegisterRunLoopCallback(func() { count++ })
	r.RegisterRunLoopCallback(func() { count++ })

	r.RunLoopTick()
	if count != 2 {
		t.Fatalf("count = %d after one tick, want 2", count)
	}
	r.RunLoopTick()
	if count != 4 {
		t.Fatalf("count = %d after two ticks, want 4", count)
	}
}

func TestGlobalWireRegistrationAndLookup(t *testing.T) {
	r := New(nil)
	r.RegisterGlobalWire("main", "a-wire-value")

	w, ok := r.GlobalWire("main")
	if !ok || w != "a-wire-value" {
		t.Fatalf("GlobalWire(main) = %v, ok=%v", w, ok)
	}
	if _, ok := r.GlobalWire("missing"); ok {
		t.Fatalf("expected an unregistered wire name to miss")
	}
}

func TestObserverIsNotifiedOnEveryRegistration(t *testing.T) {
	r := New(nil)
	var events [][2]string
	token := r.RegisterObserver(func(kind, name string) {
		events = append(events, [2]string{kind, name})
	})

	r.RegisterShard("Const", func() any { return nil })
	r.RegisterObjectType(ObjectTypeInfo{Name: "disk-blob"})

	if len(events) != 2 {
		t.Fatalf("events = %v, want 2 notifications", events)
	}
	if events[0] != ([2]string{"shard", "Const"}) {
		t.Fatalf("events[0] = %v, want [shard Const]", events[0])
	}
	if events[1] != ([2]string{"object", "disk-blob"}) {
		t.Fatalf("events[1] = %v, want [object disk-blob]", events[1])
	}

	r.Unobserve(token)
	r.RegisterShard("Log", func() any { return nil })
	if len(events) != 2 {
		t.Fatalf("events after Unobserve = %v, want still 2 (no further notifications)", events)
	}
}

func TestDefaultIsAProcessWideSingleton(t *testing.T) {
	a := Default()
	b := Default()
	if a != b {
		t.Fatalf("Default() should return the same instance on repeated calls")
	}
}

func TestStringTableInternAndLookupRoundtrip(t *testing.T) {
	st := NewStringTable()
	if st.Loaded() {
		t.Fatalf("a fresh StringTable should report Loaded() == false")
	}

	crc := st.Intern([]byte("raw-bytes"), "decompressed-value")
	if got := st.Lookup(crc); got != "decompressed-value" {
		t.Fatalf("Lookup(%d) = %q, want %q", crc, got, "decompressed-value")
	}
}

func TestStringTableInternDedupsIdenticalBytes(t *testing.T) {
	st := NewStringTable()
	raw := []byte("same-bytes")
	crc1 := st.Intern(raw, "first")
	crc2 := st.Intern(raw, "second-should-be-ignored-by-dedup-path")
	if crc1 != crc2 {
		t.Fatalf("interning identical raw bytes twice should return the same CRC32 key")
	}
	if got := st.Lookup(crc1); got != "first" {
		t.Fatalf("the dedup path should short-circuit before overwriting the first decompressed value, got %q", got)
	}
}

func TestStringTableLoadReplacesWholesaleAndMarksLoaded(t *testing.T) {
	st := NewStringTable()
	st.Intern([]byte("x"), "old")

	st.Load(map[uint32]string{42: "fresh"})
	if !st.Loaded() {
		t.Fatalf("expected Loaded() == true after Load")
	}
	if got := st.Lookup(42); got != "fresh" {
		t.Fatalf("Lookup(42) = %q, want %q", got, "fresh")
	}
}

func TestStringTableLookupOfUnknownKeyDefaultsToEmpty(t *testing.T) {
	st := NewStringTable()
	if got := st.Lookup(999); got != "" {
		t.Fatalf("Lookup on an unloaded table should default to empty, got %q", got)
	}
}
