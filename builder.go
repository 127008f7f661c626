package jiter

import "math/big"

// Builder is the Host Bridge from spec §4.7/§9: the tree builder never
// constructs a *Value directly, it only calls through this interface, so
// an embedding host can materialize its own object model (e.g. a
// scripting language's native table type) in place of Value. Every method
// may return an error to abort the decode with a HostBuilderError.
//
// Array and Object construction is staged the way the teacher's tape
// walk is staged: Begin reserves a place, a Push per element, then End
// finalizes — never a single call carrying every child at once, since
// children are produced one at a time by the underlying pull parser.
type Builder interface {
	MakeNull() (any, error)
	MakeBool(b bool) (any, error)
	MakeInt(i int64) (any, error)
	MakeBigInt(b *big.Int) (any, error)
	// MakeFloat receives either a parsed float64 (lossless == false) or the
	// raw literal bytes (lossless == true, f ignored) per spec §4.3.
	MakeFloat(f float64, raw []byte, lossless bool) (any, error)
	MakeString(s string) (any, error)

	BeginArray() (any, error)
	PushArray(arr, elem any) (any, error)
	EndArray(arr any) (any, error)

	BeginObject() (any, error)
	PushObject(obj any, key string, val any) (any, error)
	EndObject(obj any) (any, error)
}

// valueBuilder is the default Builder, producing the library's own *Value
// tree (spec §3's tagged union). Array/Object accumulate into a plain
// slice as they're pushed; Begin/End exist only to satisfy the interface
// shape, since *Value needs no separate finalization step.
type valueBuilder struct{}

func (valueBuilder) MakeNull() (any, error)       { return &Value{Type: TypeNull}, nil }
func (valueBuilder) MakeBool(b bool) (any, error) { return &Value{Type: TypeBool, Bool: b}, nil }
func (valueBuilder) MakeInt(i int64) (any, error) { return &Value{Type: TypeInt, Int: i}, nil }
func (valueBuilder) MakeBigInt(b *big.Int) (any, error) {
	return &Value{Type: TypeBigInt, BigInt: b}, nil
}
func (valueBuilder) MakeFloat(f float64, raw []byte, lossless bool) (any, error) {
	v := &Value{Type: TypeFloat, Float: f, isFloatLossless: lossless}
	if lossless {
		v.Raw = raw
	}
	return v, nil
}
func (valueBuilder) MakeString(s string) (any, error) { return &Value{Type: TypeString, Str: s}, nil }

func (valueBuilder) BeginArray() (any, error) { return &Value{Type: TypeArray}, nil }
func (valueBuilder) PushArray(arr, elem any) (any, error) {
	av := arr.(*Value)
	av.Array = append(av.Array, elem.(*Value))
	return av, nil
}
func (valueBuilder) EndArray(arr any) (any, error) { return arr, nil }

func (valueBuilder) BeginObject() (any, error) { return &Value{Type: TypeObject}, nil }
func (valueBuilder) PushObject(obj any, key string, val any) (any, error) {
	ov := obj.(*Value)
	ov.Object = append(ov.Object, KV{Key: key, Value: val.(*Value)})
	return ov, nil
}
func (valueBuilder) EndObject(obj any) (any, error) { return obj, nil }

// buildFrame is one entry of the tree builder's explicit stack (spec
// §4.7's "must not use Go's call stack to mirror JSON nesting"). It holds
// the in-progress container value handed back by Builder, plus, for
// objects, the key the next pushed value belongs under.
type buildFrame struct {
	kind frameKind
	val  any
	key  string
	seen map[string]struct{} // non-nil only when duplicate-key checking is on
}

// buildTree drives it to completion against bd using an explicit stack
// instead of recursion, grounded directly on unified_machine's goto-based
// walk in stage2_build_tape.go: that state machine never recurses either,
// it threads a depth-indexed array of open containers by hand.
func buildTree(it *Iterator, bd Builder) (any, *Error) {
	var stack []buildFrame
	var pending any

	for {
		// A value is mandatory at every iteration of this loop (top-level,
		// after a comma, after a key), so peekValue turns bare EOF into
		// EOFWhileParsingValue instead of the public Peek's silent
		// PeekNone — which is also what lets recoverPartial see it as
		// eof-ish and recover a clean prefix (spec §8's empty-input and
		// partial-array/object cases).
		tag, perr := it.peekValue()
		if perr != nil {
			if v, ok := recoverPartial(it, stack, bd, perr); ok {
				return v, nil
			}
			return nil, perr
		}

		var opened bool
		switch tag {
		case PeekNull:
			if e := it.NextNull(); e != nil {
				if v, ok := recoverPartial(it, stack, bd, e); ok {
					return v, nil
				}
				return nil, e
			}
			v, err := bd.MakeNull()
			if err != nil {
				return nil, hostBuilderErr(it.Pos(), err)
			}
			pending = v

		case PeekTrue, PeekFalse:
			b, e := it.NextBool()
			if e != nil {
				if v, ok := recoverPartial(it, stack, bd, e); ok {
					return v, nil
				}
				return nil, e
			}
			v, err := bd.MakeBool(b)
			if err != nil {
				return nil, hostBuilderErr(it.Pos(), err)
			}
			pending = v

		case PeekString:
			s, e := it.NextStr()
			if e != nil {
				if v, ok := recoverPartial(it, stack, bd, e); ok {
					return v, nil
				}
				return nil, e
			}
			v, err := bd.MakeString(s)
			if err != nil {
				return nil, hostBuilderErr(it.Pos(), err)
			}
			pending = v

		case PeekMinus, PeekDigit, PeekInfinity, PeekNaN:
			n, e := it.NextNumber()
			if e != nil {
				if v, ok := recoverPartial(it, stack, bd, e); ok {
					return v, nil
				}
				return nil, e
			}
			var v any
			var err error
			switch n.Kind {
			case NumInt:
				v, err = bd.MakeInt(n.Int)
			case NumBigInt:
				v, err = bd.MakeBigInt(n.BigInt)
			case NumFloat:
				v, err = bd.MakeFloat(n.Float, nil, false)
			case NumFloatLossless:
				v, err = bd.MakeFloat(0, n.Raw, true)
			}
			if err != nil {
				return nil, hostBuilderErr(it.Pos(), err)
			}
			pending = v

		case PeekArray:
			has, e := it.NextArray()
			if e != nil {
				if v, ok := recoverPartial(it, stack, bd, e); ok {
					return v, nil
				}
				return nil, e
			}
			av, err := bd.BeginArray()
			if err != nil {
				return nil, hostBuilderErr(it.Pos(), err)
			}
			if !has {
				ev, eerr := bd.EndArray(av)
				if eerr != nil {
					return nil, hostBuilderErr(it.Pos(), eerr)
				}
				pending = ev
			} else {
				if len(stack) >= it.opt.maxDepth {
					return nil, newErr(RecursionLimitExceeded, it.Pos())
				}
				stack = append(stack, buildFrame{kind: frameArray, val: av})
				opened = true
			}

		case PeekObject:
			key, has, e := it.NextObject()
			if e != nil {
				if v, ok := recoverPartial(it, stack, bd, e); ok {
					return v, nil
				}
				return nil, e
			}
			ov, err := bd.BeginObject()
			if err != nil {
				return nil, hostBuilderErr(it.Pos(), err)
			}
			if !has {
				ev, eerr := bd.EndObject(ov)
				if eerr != nil {
					return nil, hostBuilderErr(it.Pos(), eerr)
				}
				pending = ev
			} else {
				if len(stack) >= it.opt.maxDepth {
					return nil, newErr(RecursionLimitExceeded, it.Pos())
				}
				frm := buildFrame{kind: frameObject, val: ov, key: key}
				if it.opt.catchDuplicateKeys {
					frm.seen = map[string]struct{}{key: {}}
				}
				stack = append(stack, frm)
				opened = true
			}

		default:
			return nil, newErr(ExpectedSomeValue, it.Pos())
		}

		if opened {
			continue
		}

		// Cascade pending up through however many containers close in a
		// row (e.g. the trailing "]]]" of deeply nested arrays).
		for {
			if len(stack) == 0 {
				return pending, nil
			}
			top := &stack[len(stack)-1]

			if top.kind == frameArray {
				nv, err := bd.PushArray(top.val, pending)
				if err != nil {
					return nil, hostBuilderErr(it.Pos(), err)
				}
				top.val = nv
				has, e := it.ArrayStep()
				if e != nil {
					if v, ok := recoverPartial(it, stack, bd, e); ok {
						return v, nil
					}
					return nil, e
				}
				if has {
					break
				}
				ev, eerr := bd.EndArray(top.val)
				if eerr != nil {
					return nil, hostBuilderErr(it.Pos(), eerr)
				}
				stack = stack[:len(stack)-1]
				pending = ev
				continue
			}

			nv, err := bd.PushObject(top.val, top.key, pending)
			if err != nil {
				return nil, hostBuilderErr(it.Pos(), err)
			}
			top.val = nv
			key, has, e := it.NextKey()
			if e != nil {
				if v, ok := recoverPartial(it, stack, bd, e); ok {
					return v, nil
				}
				return nil, e
			}
			if has {
				if top.seen != nil {
					if _, dup := top.seen[key]; dup {
						return nil, newErr(DuplicateKey, it.Pos())
					}
					top.seen[key] = struct{}{}
				}
				top.key = key
				break
			}
			ev, eerr := bd.EndObject(top.val)
			if eerr != nil {
				return nil, hostBuilderErr(it.Pos(), eerr)
			}
			stack = stack[:len(stack)-1]
			pending = ev
		}
	}
}
