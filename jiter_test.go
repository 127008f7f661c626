package jiter

import (
	"math/big"
	"testing"
)

func TestParseObjectAndArray(t *testing.T) {
	v, err := Parse([]byte(`{"a":1,"b":[2,3,"x"],"c":null}`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Type != TypeObject || len(v.Object) != 3 {
		t.Fatalf("got %+v", v)
	}
	if v.Object[0].Key != "a" || v.Object[0].Value.Int != 1 {
		t.Fatalf("got %+v", v.Object[0])
	}
	arr := v.Object[1].Value
	if arr.Type != TypeArray || len(arr.Array) != 3 {
		t.Fatalf("got %+v", arr)
	}
	if arr.Array[2].Str != "x" {
		t.Fatalf("got %+v", arr.Array[2])
	}
	if v.Object[2].Value.Type != TypeNull {
		t.Fatalf("got %+v", v.Object[2].Value)
	}
}

func TestParseBigInt(t *testing.T) {
	v, err := Parse([]byte(`123456789012345678901234567890`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Type != TypeBigInt {
		t.Fatalf("got %v", v.Type)
	}
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if v.BigInt.Cmp(want) != 0 {
		t.Fatalf("got %s", v.BigInt.String())
	}
}

func TestParseLosslessFloat(t *testing.T) {
	v, err := Parse([]byte(`1.100`), WithLosslessFloats(true))
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsFloatLossless() || string(v.Raw) != "1.100" {
		t.Fatalf("got %+v", v)
	}
}

func TestParseTrailingCharactersErrors(t *testing.T) {
	_, err := Parse([]byte(`1 2`))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseDuplicateKeyDetection(t *testing.T) {
	_, err := Parse([]byte(`{"a":1,"a":2}`), WithCatchDuplicateKeys(true))
	je, ok := err.(*Error)
	if !ok || je.Kind != DuplicateKey {
		t.Fatalf("got %v", err)
	}
}

func TestParseDuplicateKeyAllowedByDefault(t *testing.T) {
	v, err := Parse([]byte(`{"a":1,"a":2}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Object) != 2 {
		t.Fatalf("expected both entries preserved, got %+v", v.Object)
	}
}

func TestParseMaxDepthExceeded(t *testing.T) {
	_, err := Parse([]byte(`[[[[[1]]]]]`), WithMaxDepth(2))
	je, ok := err.(*Error)
	if !ok || je.Kind != RecursionLimitExceeded {
		t.Fatalf("got %v", err)
	}
}

func TestParseAllowPartialArray(t *testing.T) {
	v, err := Parse([]byte(`[1,2,`), WithAllowPartial(AllowPartialOn))
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Array) != 2 {
		t.Fatalf("got %+v", v.Array)
	}
}

func TestParseAllowPartialNestedObject(t *testing.T) {
	v, err := Parse([]byte(`{"a":1,"b":{"c":2,`), WithAllowPartial(AllowPartialOn))
	if err != nil {
		t.Fatal(err)
	}
	if v.Object[0].Key != "a" {
		t.Fatalf("got %+v", v.Object)
	}
	inner := v.Object[1].Value
	if inner.Type != TypeObject || inner.Object[0].Key != "c" {
		t.Fatalf("got %+v", inner)
	}
}

func TestParseRejectsPartialByDefault(t *testing.T) {
	_, err := Parse([]byte(`[1,2,`))
	if err == nil {
		t.Fatal("expected error without AllowPartial")
	}
}

func TestParseWithBuilderCustomType(t *testing.T) {
	bd := &countingBuilder{}
	_, err := ParseWithBuilder([]byte(`{"a":[1,2,3]}`), bd)
	if err != nil {
		t.Fatal(err)
	}
	if bd.ints != 3 || bd.strings != 0 {
		t.Fatalf("got %+v", bd)
	}
}

// countingBuilder is a minimal Builder used only to prove ParseWithBuilder
// drives an arbitrary host type, not just the library's own Value.
type countingBuilder struct {
	ints    int
	strings int
}

func (b *countingBuilder) MakeNull() (any, error) { return nil, nil }
func (b *countingBuilder) MakeBool(v bool) (any, error) { return v, nil }
func (b *countingBuilder) MakeInt(v int64) (any, error) { b.ints++; return v, nil }
func (b *countingBuilder) MakeBigInt(v *big.Int) (any, error) { return v, nil }
func (b *countingBuilder) MakeFloat(f float64, raw []byte, lossless bool) (any, error) {
	return f, nil
}
func (b *countingBuilder) MakeString(s string) (any, error) { b.strings++; return s, nil }
func (b *countingBuilder) BeginArray() (any, error)         { return []any{}, nil }
func (b *countingBuilder) PushArray(arr, elem any) (any, error) {
	return append(arr.([]any), elem), nil
}
func (b *countingBuilder) EndArray(arr any) (any, error) { return arr, nil }
func (b *countingBuilder) BeginObject() (any, error)     { return map[string]any{}, nil }
func (b *countingBuilder) PushObject(obj any, key string, val any) (any, error) {
	m := obj.(map[string]any)
	m[key] = val
	return m, nil
}
func (b *countingBuilder) EndObject(obj any) (any, error) { return obj, nil }
