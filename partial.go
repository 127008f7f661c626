package jiter

// recoverPartial is the Partial-Parse Controller from spec §4.8: it
// consults errors.go's isEOFIsh table once, at the point an error would
// otherwise abort the decode, and decides whether truncated input is
// acceptable here. It never re-derives "is this an EOF" itself — that
// classification is errors.go's job — it only decides whether the
// current AllowPartial mode and the shape of the still-open stack permit
// truncating.
//
// Recovery closes the containers on the builder's stack as they stand,
// keeping the children already pushed into each and dropping the value in
// progress (so `{"a":` yields an empty object). An array is on that stack
// once its first element has started, an object once its first key and
// colon have been read; a container truncated before that point is dropped
// like any other in-progress value. With an empty stack (the truncated
// value is the top-level one) there is nothing to hand back and the error
// stands.
func recoverPartial(it *Iterator, stack []buildFrame, bd Builder, err *Error) (any, bool) {
	if err == nil || !err.Kind.isEOFIsh() {
		return nil, false
	}
	if it.opt.allowPartial == AllowPartialOff {
		return nil, false
	}
	if len(stack) == 0 {
		return nil, false
	}
	v, cerr := closeFrames(stack, bd)
	if cerr != nil {
		return nil, false
	}
	// The bytes left are the truncated value that was just dropped.
	it.cur.pos = len(it.cur.buf)
	return v, true
}

// closeFrames finalizes every still-open frame from innermost to
// outermost, attaching each closed container into its parent, and
// returns the outermost resulting value.
func closeFrames(stack []buildFrame, bd Builder) (any, *Error) {
	var pending any
	for i := len(stack) - 1; i >= 0; i-- {
		f := &stack[i]
		var ev any
		var err error
		if f.kind == frameArray {
			ev, err = bd.EndArray(f.val)
		} else {
			ev, err = bd.EndObject(f.val)
		}
		if err != nil {
			return nil, hostBuilderErr(0, err)
		}
		pending = ev

		if i == 0 {
			break
		}
		parent := &stack[i-1]
		if parent.kind == frameArray {
			nv, perr := bd.PushArray(parent.val, pending)
			if perr != nil {
				return nil, hostBuilderErr(0, perr)
			}
			parent.val = nv
		} else {
			nv, perr := bd.PushObject(parent.val, parent.key, pending)
			if perr != nil {
				return nil, hostBuilderErr(0, perr)
			}
			parent.val = nv
		}
	}
	return pending, nil
}
