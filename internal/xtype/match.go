package xtype

// Match implements §4.B matchTypes(input, receiver, isParameter, strict).
// It reports whether a Value of type `input` may legally flow into a slot
// declared as `receiver`.
func Match(input, receiver Type, isParameter, strict bool) bool {
	// Rule 1: receiver Any accepts anything.
	if receiver.Kind == KindAny {
		return true
	}

	// Rule 2: kinds must otherwise coincide.
	if input.Kind != receiver.Kind {
		return false
	}

	switch receiver.Kind {
	case KindObject, KindEnum:
		// Rule 3: (vendor,type) must coincide; Enum(0,0) on the receiver
		// is a wildcard.
		if receiver.Kind == KindEnum && receiver.Vendor == 0 && receiver.TypeID == 0 {
			return true
		}
		return input.Vendor == receiver.Vendor && input.TypeID == receiver.TypeID

	case KindSequence:
		if !strict {
			return true
		}
		return matchSequence(input, receiver)

	case KindTable:
		if !strict {
			return true
		}
		return matchTable(input, receiver)

	case KindSet:
		if !strict {
			return true
		}
		return matchElementSet(input.SetElements, receiver.SetElements)

	default:
		// Rule 6: simple kinds match once the kind check above passed.
		return true
	}
}

// matchSequence implements §4.B rule 4.
func matchSequence(input, receiver Type) bool {
	if len(input.Elements) == 0 {
		// "any" input element set matches only if receiver explicitly
		// allows Any as an element.
		if !containsAny(receiver.Elements) {
			return false
		}
	} else {
		for _, in := range input.Elements {
			if !anyMatches(in, receiver.Elements) {
				return false
			}
		}
	}
	if receiver.Fixed != 0 && input.Fixed < receiver.Fixed {
		return false
	}
	return true
}

// matchTable implements §4.B rule 5.
func matchTable(input, receiver Type) bool {
	if len(receiver.TableKeys) == 0 {
		return matchElementSet(input.TableTypes, receiver.TableTypes)
	}

	// 1:1 key alignment, with a trailing sentinel meaning "extra input
	// keys must match the sentinel's type".
	sentinelIdx := -1
	for i, k := range receiver.TableKeys {
		if k.IsSentinel() {
			sentinelIdx = i
			break
		}
	}

	matched := make([]bool, len(input.TableKeys))
	for ri, rk := range receiver.TableKeys {
		if rk.IsSentinel() {
			continue
		}
		found := false
		for ii, ik := range input.TableKeys {
			if matched[ii] {
				continue
			}
			if KeyEqual(ik, rk) {
				if !Match(input.TableTypes[ii], receiver.TableTypes[ri], false, true) {
					return false
				}
				matched[ii] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for ii, ik := range input.TableKeys {
		if matched[ii] {
			continue
		}
		// Extra input key: only permitted when the receiver carries the
		// sentinel, and it must match the sentinel's declared type.
		if sentinelIdx == -1 {
			return false
		}
		_ = ik
		if !Match(input.TableTypes[ii], receiver.TableTypes[sentinelIdx], false, true) {
			return false
		}
	}
	return true
}

func containsAny(types []Type) bool {
	for _, t := range types {
		if t.Kind == KindAny {
			return true
		}
	}
	return false
}

func anyMatches(in Type, candidates []Type) bool {
	for _, c := range candidates {
		if Match(in, c, false, true) {
			return true
		}
	}
	return false
}

// matchElementSet reports whether every type in `input` matches some type
// in `receiver` -- used for the non-keyed Table case and for Set.
func matchElementSet(input, receiver []Type) bool {
	if len(receiver) == 0 {
		return true
	}
	for _, in := range input {
		if !anyMatches(in, receiver) {
			return false
		}
	}
	return true
}

// Equal is structural equality with order-insensitive element sets, per
// §4.B "Type equality is structural with order-insensitive element sets."
func Equal(a, b Type) bool {
	if a.Kind != b.Kind || a.Self != b.Self {
		return false
	}
	switch a.Kind {
	case KindObject, KindEnum:
		return a.Vendor == b.Vendor && a.TypeID == b.TypeID
	case KindSequence:
		return a.Fixed == b.Fixed && typeSetEqual(a.Elements, b.Elements)
	case KindTable:
		return tableEqual(a, b)
	case KindSet:
		return typeSetEqual(a.SetElements, b.SetElements)
	default:
		return true
	}
}

func typeSetEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ta := range a {
		found := false
		for i, tb := range b {
			if used[i] {
				continue
			}
			if Equal(ta, tb) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func tableEqual(a, b Type) bool {
	if len(a.TableKeys) != len(b.TableKeys) {
		return false
	}
	used := make([]bool, len(b.TableKeys))
	for i, ka := range a.TableKeys {
		found := false
		for j, kb := range b.TableKeys {
			if used[j] {
				continue
			}
			if KeyEqual(ka, kb) && Equal(a.TableTypes[i], b.TableTypes[j]) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
