package jiter

import "math/big"

type frameKind uint8

const (
	frameArray frameKind = iota
	frameObject
)

// frame is one entry on the container stack (spec §3's Frame). expectFirst
// distinguishes "expect value/key-or-close" from "expect comma-or-close",
// matching unified_machine's object_begin/object_key_state (expect first)
// versus object_continue (expect comma-or-close) split.
type frame struct {
	kind        frameKind
	expectFirst bool
}

// Iterator is the cursor-style pull parser from spec §4.6: it yields
// tokens directly off the byte cursor and never materializes an
// intermediate tree. Grounded on two teacher pieces: unified_machine's
// goto state machine (for the state shape: object_begin/object_continue/
// array_begin/array_continue, depth-bounded) and parsed_json.go's Iter
// (Advance/AdvanceInto/PeekNext/PeekNextTag) for the peek-then-consume API
// surface — this Iterator drives the same contract straight off the bytes
// instead of a pre-built tape.
type Iterator struct {
	cur      cursor
	opt      *options
	stack    []frame
	atValue  bool // true once a Peek has been resolved and a value is pending
	peekTag  PeekTag
	peekedAt int
}

// NewIterator constructs a pull parser over buf. Options mirror Parse's.
func NewIterator(buf []byte, opts ...ParserOption) *Iterator {
	o := defaultOptions()
	for _, f := range opts {
		f(o)
	}
	return &Iterator{cur: newCursor(buf), opt: o}
}

func (it *Iterator) pushFrame(kind frameKind) *Error {
	if len(it.stack) >= it.opt.maxDepth {
		return newErr(RecursionLimitExceeded, it.cur.pos)
	}
	it.stack = append(it.stack, frame{kind: kind, expectFirst: true})
	return nil
}

func (it *Iterator) popFrame() {
	it.stack = it.stack[:len(it.stack)-1]
}

func (it *Iterator) topFrame() (frame, bool) {
	if len(it.stack) == 0 {
		return frame{}, false
	}
	return it.stack[len(it.stack)-1], true
}

// Pos returns the current byte offset, for callers that want to report
// their own contextual errors.
func (it *Iterator) Pos() int { return it.cur.pos }

// Peek classifies the next value without consuming any bytes.
func (it *Iterator) Peek() (PeekTag, *Error) {
	b, ok := it.cur.peek()
	if !ok {
		return PeekNone, nil
	}
	tag := classify(b)
	if tag == PeekNone {
		return PeekNone, newErr(ExpectedSomeValue, it.cur.pos)
	}
	it.peekTag = tag
	it.peekedAt = it.cur.pos
	it.atValue = true
	return tag, nil
}

// peekValue is Peek for call sites where a value is mandatory at the
// current position: unlike the public Peek (which reports a bare EOF as
// PeekNone, nil per spec §4.6's peek op), every internal caller that
// reaches here has already committed to decoding something, so running
// off the end of the input is EOFWhileParsingValue, not a silent "no
// tag" — and, being eof-ish, it's then something recoverPartial can act
// on (spec §8's empty/whitespace-only-input and partial-array cases).
func (it *Iterator) peekValue() (PeekTag, *Error) {
	tag, err := it.Peek()
	if err != nil {
		return PeekNone, err
	}
	if tag == PeekNone {
		return PeekNone, newErr(EOFWhileParsingValue, it.cur.pos)
	}
	return tag, nil
}

func (it *Iterator) requirePeeked(want PeekTag) *Error {
	if !it.atValue {
		if _, err := it.peekValue(); err != nil {
			return err
		}
	}
	if it.peekTag != want {
		return wrongTypeErr(it.peekedAt, peekTagType(want), peekTagType(it.peekTag))
	}
	return nil
}

func peekTagType(p PeekTag) Type {
	switch p {
	case PeekNull:
		return TypeNull
	case PeekTrue, PeekFalse:
		return TypeBool
	case PeekString:
		return TypeString
	case PeekArray:
		return TypeArray
	case PeekObject:
		return TypeObject
	case PeekMinus, PeekDigit, PeekInfinity, PeekNaN:
		return TypeFloat
	}
	return TypeNull
}

// NextNull consumes a `null` literal.
func (it *Iterator) NextNull() *Error {
	if err := it.requirePeeked(PeekNull); err != nil {
		return err
	}
	if !it.cur.eatLiteral("null") {
		return it.atomError("null")
	}
	it.atValue = false
	return nil
}

// NextBool consumes a `true`/`false` literal.
func (it *Iterator) NextBool() (bool, *Error) {
	b, _ := it.cur.peek()
	switch b {
	case 't':
		if err := it.requirePeeked(PeekTrue); err != nil {
			return false, err
		}
		if !it.cur.eatLiteral("true") {
			return false, it.atomError("true")
		}
		it.atValue = false
		return true, nil
	case 'f':
		if err := it.requirePeeked(PeekFalse); err != nil {
			return false, err
		}
		if !it.cur.eatLiteral("false") {
			return false, it.atomError("false")
		}
		it.atValue = false
		return false, nil
	}
	if _, err := it.peekValue(); err != nil {
		return false, err
	}
	return false, wrongTypeErr(it.peekedAt, TypeBool, peekTagType(it.peekTag))
}

func (it *Iterator) atomError(lit string) *Error {
	if it.cur.pos+len(lit) > len(it.cur.buf) {
		return newErr(EOFWhileParsingValue, it.peekedAt)
	}
	return newErr(ExpectedSomeIdent, it.peekedAt)
}

func (it *Iterator) numOpts() numberOptions {
	return numberOptions{
		allowInfNaN:    it.opt.allowInfNaN,
		allowBigInt:    it.opt.allowBigInt,
		losslessFloats: it.opt.losslessFloats,
	}
}

// NextNumber decodes whichever numeric literal sits at the value
// position, classifying once per spec §4.3.
func (it *Iterator) NextNumber() (Number, *Error) {
	if !it.atValue {
		if _, err := it.peekValue(); err != nil {
			return Number{}, err
		}
	}
	switch it.peekTag {
	case PeekMinus, PeekDigit, PeekInfinity, PeekNaN:
	default:
		return Number{}, wrongTypeErr(it.peekedAt, TypeFloat, peekTagType(it.peekTag))
	}
	n, err := decodeNumber(&it.cur, it.numOpts())
	if err != nil {
		return Number{}, err
	}
	it.atValue = false
	return n, nil
}

// NextInt requires the number decode exactly to an Int (spec's
// FloatExpectingInt edge when a float literal appears where an integer
// was required).
func (it *Iterator) NextInt() (int64, *Error) {
	at := it.peekedAt
	n, err := it.NextNumber()
	if err != nil {
		return 0, err
	}
	if n.Kind != NumInt {
		return 0, newErr(FloatExpectingInt, at)
	}
	return n.Int, nil
}

// NextBigInt returns the number as an arbitrary-precision integer,
// promoting a plain Int if needed.
func (it *Iterator) NextBigInt() (*big.Int, *Error) {
	at := it.peekedAt
	n, err := it.NextNumber()
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case NumInt:
		return big.NewInt(n.Int), nil
	case NumBigInt:
		return n.BigInt, nil
	default:
		return nil, newErr(FloatExpectingInt, at)
	}
}

// NextFloat returns the number as a float64, auto-converting integers.
func (it *Iterator) NextFloat() (float64, *Error) {
	n, err := it.NextNumber()
	if err != nil {
		return 0, err
	}
	return n.AsFloat(), nil
}

// NextStr decodes a string value and returns it as a (possibly interned)
// Go string.
func (it *Iterator) NextStr() (string, *Error) {
	ds, err := it.NextStrBytes()
	if err != nil {
		return "", err
	}
	if it.opt.cacheStrings == CacheAll {
		return it.opt.cache.intern(ds.Bytes), nil
	}
	return string(ds.Bytes), nil
}

// NextStrBytes is the byte-level counterpart of NextStr (which calls it):
// it returns the decoded bytes, borrowed or owned, without converting them
// to a string or interning them.
func (it *Iterator) NextStrBytes() (DecodedString, *Error) {
	if err := it.requirePeeked(PeekString); err != nil {
		return DecodedString{}, err
	}
	ds, err := decodeString(&it.cur, it.opt.partialString())
	if err != nil {
		return DecodedString{}, err
	}
	if ds.Borrowed && it.opt.copyStrings {
		owned := make([]byte, len(ds.Bytes))
		copy(owned, ds.Bytes)
		ds.Bytes = owned
		ds.Borrowed = false
	}
	it.atValue = false
	return ds, nil
}

// NextArray opens an array and reports whether it has a first element
// ready to be decoded.
func (it *Iterator) NextArray() (bool, *Error) {
	if err := it.requirePeeked(PeekArray); err != nil {
		return false, err
	}
	it.cur.pos++ // consume '['
	it.atValue = false
	b, ok := it.cur.peek()
	if !ok {
		return false, newErr(EOFWhileParsingList, it.peekedAt)
	}
	if b == ']' {
		it.cur.pos++
		return false, nil
	}
	if err := it.pushFrame(frameArray); err != nil {
		return false, err
	}
	f, _ := it.topFrame()
	f.expectFirst = false
	it.stack[len(it.stack)-1] = f
	return true, nil
}

// ArrayStep asks whether another array element follows the one just
// decoded, consuming the separating comma or the closing bracket.
func (it *Iterator) ArrayStep() (bool, *Error) {
	f, ok := it.topFrame()
	if !ok || f.kind != frameArray {
		return false, newErr(ExpectedListCommaOrEnd, it.cur.pos)
	}
	b, ok := it.cur.peek()
	if !ok {
		return false, newErr(EOFWhileParsingList, it.cur.pos)
	}
	switch b {
	case ',':
		it.cur.pos++
		b2, ok := it.cur.peek()
		if !ok {
			// Comma consumed, nothing follows: the same eof-ish shape
			// NextKey/readKey already produce for a trailing comma at
			// EOF in an object, so recoverPartial can truncate the
			// array back to its already-decoded elements under
			// allow_partial (spec §8's `[1,2,` case).
			return false, newErr(EOFWhileParsingList, it.cur.pos)
		}
		if b2 == ']' {
			return false, newErr(TrailingComma, it.cur.pos)
		}
		it.atValue = false
		return true, nil
	case ']':
		it.cur.pos++
		it.popFrame()
		it.atValue = false
		return false, nil
	default:
		return false, newErr(ExpectedListCommaOrEnd, it.cur.pos)
	}
}

// NextObject opens an object and reports the first key, if any.
func (it *Iterator) NextObject() (string, bool, *Error) {
	if err := it.requirePeeked(PeekObject); err != nil {
		return "", false, err
	}
	it.cur.pos++ // consume '{'
	it.atValue = false
	b, ok := it.cur.peek()
	if !ok {
		return "", false, newErr(EOFWhileParsingObject, it.peekedAt)
	}
	if b == '}' {
		it.cur.pos++
		return "", false, nil
	}
	if err := it.pushFrame(frameObject); err != nil {
		return "", false, err
	}
	return it.readKey()
}

// NextKey asks for the next object key, consuming the separating comma
// or the closing brace.
func (it *Iterator) NextKey() (string, bool, *Error) {
	f, ok := it.topFrame()
	if !ok || f.kind != frameObject {
		return "", false, newErr(ExpectedObjectCommaOrEnd, it.cur.pos)
	}
	b, ok := it.cur.peek()
	if !ok {
		return "", false, newErr(EOFWhileParsingObject, it.cur.pos)
	}
	switch b {
	case ',':
		it.cur.pos++
		if b2, ok := it.cur.peek(); ok && b2 == '}' {
			return "", false, newErr(TrailingComma, it.cur.pos)
		}
		return it.readKey()
	case '}':
		it.cur.pos++
		it.popFrame()
		it.atValue = false
		return "", false, nil
	default:
		return "", false, newErr(ExpectedObjectCommaOrEnd, it.cur.pos)
	}
}

func (it *Iterator) readKey() (string, bool, *Error) {
	b, ok := it.cur.peek()
	if !ok {
		return "", false, newErr(EOFWhileParsingObject, it.cur.pos)
	}
	if b != '"' {
		return "", false, newErr(KeyMustBeAString, it.cur.pos)
	}
	ds, err := decodeString(&it.cur, it.opt.partialString())
	if err != nil {
		return "", false, err
	}
	if !it.cur.eat(':') {
		if _, ok := it.cur.peek(); !ok {
			return "", false, newErr(EOFWhileParsingObject, it.cur.pos)
		}
		return "", false, newErr(ExpectedColon, it.cur.pos)
	}
	key := string(ds.Bytes)
	if it.opt.cacheStrings == CacheAll || it.opt.cacheStrings == CacheKeys {
		key = it.opt.cache.intern(ds.Bytes)
	}
	it.atValue = false
	return key, true, nil
}

// NextValue is an explicit alias for Peek, named to match spec §4.6's
// table: after NextKey, the caller peeks the value's type, then calls the
// matching leaf decoder. A value is mandatory here (a key was already
// consumed), so EOF is reported as EOFWhileParsingValue rather than the
// bare PeekNone the public Peek returns.
func (it *Iterator) NextValue() (PeekTag, *Error) {
	return it.peekValue()
}

// NextSkip advances past the value at the current position without
// materializing it. Bounded recursion mirrors the container-depth bound
// used everywhere else (spec §3's "never exceeds a configured bound").
func (it *Iterator) NextSkip() *Error {
	return it.skipValue(0)
}

func (it *Iterator) skipValue(depth int) *Error {
	if depth > it.opt.maxDepth {
		return newErr(RecursionLimitExceeded, it.cur.pos)
	}
	tag, err := it.peekValue()
	if err != nil {
		return err
	}
	switch tag {
	case PeekNull:
		return it.NextNull()
	case PeekTrue, PeekFalse:
		_, err := it.NextBool()
		return err
	case PeekString:
		// Shares the scanner with the full string decoder but never
		// builds a decoded buffer — skip only needs to find the closing
		// quote, per spec §4.6/§9's "number and string bodies are not
		// materialized when skipping".
		if err := skipString(&it.cur); err != nil {
			return err
		}
		it.atValue = false
		return nil
	case PeekMinus, PeekDigit, PeekInfinity, PeekNaN:
		// Likewise: scanNumber finds the literal's span without ever
		// parsing it into an int64/big.Int/float64.
		if _, err := scanNumber(&it.cur, it.opt.allowInfNaN); err != nil {
			return err
		}
		it.atValue = false
		return nil
	case PeekArray:
		has, err := it.NextArray()
		if err != nil {
			return err
		}
		for has {
			if err := it.skipValue(depth + 1); err != nil {
				return err
			}
			has, err = it.ArrayStep()
			if err != nil {
				return err
			}
		}
		return nil
	case PeekObject:
		_, has, err := it.NextObject()
		if err != nil {
			return err
		}
		for has {
			if err := it.skipValue(depth + 1); err != nil {
				return err
			}
			_, has, err = it.NextKey()
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return newErr(ExpectedSomeValue, it.cur.pos)
	}
}

// Finish asserts no non-whitespace bytes remain after the top-level value.
func (it *Iterator) Finish() *Error {
	if _, ok := it.cur.peek(); ok {
		return newErr(TrailingCharacters, it.cur.pos)
	}
	return nil
}
