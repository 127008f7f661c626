// Package jiter implements an iterable JSON decoder with two entry
// points over the same cursor-based core: Parse materializes a tree in
// one call, NewIterator drives the same grammar as a pull parser so a
// caller can decode directly into its own types without ever building an
// intermediate tree.
package jiter

// Parse decodes buf into a single *Value tree (spec §4.6's "tree mode").
// Equivalent to driving NewIterator's pull API through the default
// Builder, exposed directly since most callers just want the tree.
func Parse(buf []byte, opts ...ParserOption) (*Value, error) {
	it := NewIterator(buf, opts...)
	v, err := buildTree(it, valueBuilder{})
	if err != nil {
		return nil, err
	}
	if fin := it.Finish(); fin != nil {
		return nil, fin
	}
	return v.(*Value), nil
}

// ParseWithBuilder decodes buf through a caller-supplied Builder (spec
// §4.7's Host Bridge), returning whatever type that Builder produces for
// the root value.
func ParseWithBuilder(buf []byte, bd Builder, opts ...ParserOption) (any, error) {
	it := NewIterator(buf, opts...)
	v, err := buildTree(it, bd)
	if err != nil {
		return nil, err
	}
	if fin := it.Finish(); fin != nil {
		return nil, fin
	}
	return v, nil
}

// ParseIterator decodes exactly one top-level value from it through bd,
// leaving it positioned right after that value (no trailing-characters
// check, so callers can keep pulling more values from the same buffer).
func ParseIterator(it *Iterator, bd Builder) (any, error) {
	v, err := buildTree(it, bd)
	if err != nil {
		return nil, err
	}
	return v, nil
}
