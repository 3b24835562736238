package value

import "errors"

// ErrTypeNotOrderable is raised when Less is asked to compare two Values of
// a kind that has no total order (Object, Shard, Wire, Any) -- §4.A, §7.
var ErrTypeNotOrderable = errors.New("value: kind is not orderable")

// ErrUnresolvedContextVar is raised by DeriveTypeInfo when a ContextVar
// Value names a variable absent from the supplied shared-type set -- §4.B.
var ErrUnresolvedContextVar = errors.New("value: unresolved context variable")

// ErrForeignDestination is returned by CloneInto when the destination Value
// is marked foreign or external and therefore may not be overwritten.
var ErrForeignDestination = errors.New("value: cannot clone into a foreign-flagged destination")
