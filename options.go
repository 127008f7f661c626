package jiter

// defaultMaxDepth bounds container nesting absent an explicit
// WithMaxDepth, matching the teacher's own SIMDJSON_MAXSIZE_BYTES-style
// "always have a real bound" posture, just applied to depth instead of
// input size.
const defaultMaxDepth = 2048

// AllowPartial selects the partial-parse mode from spec §4.8: Off rejects
// any truncated input, On accepts a truncated container/value as soon as
// it has been entered (the value in progress at EOF is dropped and every
// open container closed with the children completed so far; a truncated
// top-level value still errors), TrailingStrings further
// allows the very last string in the document to be truncated mid-literal.
type AllowPartial uint8

const (
	AllowPartialOff AllowPartial = iota
	AllowPartialOn
	AllowPartialTrailingStrings
)

// options holds every ParserOption's resolved value. Unexported: callers
// only ever see the functional-option constructors below, matching the
// teacher's own ParseOptions-via-functional-options shape.
type options struct {
	allowInfNaN        bool
	allowBigInt        bool
	losslessFloats     bool
	cacheStrings       CacheMode
	copyStrings        bool
	allowPartial       AllowPartial
	catchDuplicateKeys bool
	maxDepth           int
	cache              *stringCache
}

func defaultOptions() *options {
	return &options{
		allowBigInt: true,
		maxDepth:    defaultMaxDepth,
		cache:       globalStringCache,
	}
}

func (o *options) partialString() PartialStringMode {
	switch o.allowPartial {
	case AllowPartialTrailingStrings:
		return PartialTrailingStrings
	case AllowPartialOn:
		return PartialOn
	default:
		return PartialOff
	}
}

// ParserOption configures Parse/NewIterator, following the teacher's own
// functional-options style (ParseOptions's WithXxx constructors).
type ParserOption func(*options)

// WithAllowInfNaN permits the non-standard Infinity/-Infinity/NaN atoms
// (spec §4.3) and allows float overflow to saturate to ±Inf instead of
// erroring.
func WithAllowInfNaN(allow bool) ParserOption {
	return func(o *options) { o.allowInfNaN = allow }
}

// WithAllowBigInt controls whether integers too large for int64 decode as
// *big.Int (true, the default) or as float64 (false).
func WithAllowBigInt(allow bool) ParserOption {
	return func(o *options) { o.allowBigInt = allow }
}

// WithLosslessFloats keeps every float literal's raw bytes alongside (or
// instead of) its parsed float64, so a round-trip re-emission never loses
// precision (spec §4.3's fourth number variant).
func WithLosslessFloats(lossless bool) ParserOption {
	return func(o *options) { o.losslessFloats = lossless }
}

// WithCacheStrings selects the string-interning policy (spec §4.4).
func WithCacheStrings(mode CacheMode) ParserOption {
	return func(o *options) { o.cacheStrings = mode }
}

// WithCopyStrings forces every decoded string to be copy-decoded (never
// borrowed from the input buffer), needed when the input slice will be
// mutated or freed while the decoded tree is still live.
func WithCopyStrings(copy bool) ParserOption {
	return func(o *options) { o.copyStrings = copy }
}

// WithAllowPartial selects the partial-parse mode (spec §4.8).
func WithAllowPartial(mode AllowPartial) ParserOption {
	return func(o *options) { o.allowPartial = mode }
}

// WithCatchDuplicateKeys enables O(n) duplicate-key detection while
// building an object (spec §4.7's edge case); off by default since it
// costs a per-object allocation the common case doesn't need.
func WithCatchDuplicateKeys(catch bool) ParserOption {
	return func(o *options) { o.catchDuplicateKeys = catch }
}

// WithMaxDepth overrides the container-nesting bound. A value <= 0 is
// ignored (the default stands), so callers can't accidentally disable the
// bound entirely.
func WithMaxDepth(depth int) ParserOption {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithStringCache points the parser at a private interning table instead
// of the process-wide default, letting callers isolate cache memory per
// workload.
func WithStringCache(maxEntries, maxLen int) ParserOption {
	return func(o *options) { o.cache = newStringCache(maxEntries, maxLen) }
}
