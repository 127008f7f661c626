package jiter

import (
	"math"
	"testing"
)

func decodeNumStr(t *testing.T, s string, opt numberOptions) Number {
	t.Helper()
	c := newCursor([]byte(s))
	n, err := decodeNumber(&c, opt)
	if err != nil {
		t.Fatalf("decodeNumber(%q) = %v", s, err)
	}
	if c.pos != len(s) {
		t.Fatalf("decodeNumber(%q) stopped at %d, want %d", s, c.pos, len(s))
	}
	return n
}

func TestDecodeNumberInt(t *testing.T) {
	n := decodeNumStr(t, "12345", numberOptions{allowBigInt: true})
	if n.Kind != NumInt || n.Int != 12345 {
		t.Fatalf("got %+v", n)
	}
}

func TestDecodeNumberNegative(t *testing.T) {
	n := decodeNumStr(t, "-42", numberOptions{allowBigInt: true})
	if n.Kind != NumInt || n.Int != -42 {
		t.Fatalf("got %+v", n)
	}
}

func TestDecodeNumberFloat(t *testing.T) {
	n := decodeNumStr(t, "3.25", numberOptions{allowBigInt: true})
	if n.Kind != NumFloat || n.Float != 3.25 {
		t.Fatalf("got %+v", n)
	}
}

func TestDecodeNumberExponent(t *testing.T) {
	n := decodeNumStr(t, "1.5e3", numberOptions{allowBigInt: true})
	if n.Kind != NumFloat || n.Float != 1500 {
		t.Fatalf("got %+v", n)
	}
}

func TestDecodeNumberBigInt(t *testing.T) {
	s := "123456789012345678901234567890"
	n := decodeNumStr(t, s, numberOptions{allowBigInt: true})
	if n.Kind != NumBigInt {
		t.Fatalf("got kind %v, want NumBigInt", n.Kind)
	}
	if n.BigInt.String() != s {
		t.Fatalf("got %s, want %s", n.BigInt.String(), s)
	}
}

func TestDecodeNumberBigIntDisallowedFallsBackToFloat(t *testing.T) {
	n := decodeNumStr(t, "123456789012345678901234567890", numberOptions{allowBigInt: false})
	if n.Kind != NumFloat {
		t.Fatalf("got kind %v, want NumFloat", n.Kind)
	}
}

func TestDecodeNumberLossless(t *testing.T) {
	c := newCursor([]byte("1.100"))
	n, err := decodeNumber(&c, numberOptions{losslessFloats: true})
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind != NumFloatLossless || string(n.Raw) != "1.100" {
		t.Fatalf("got %+v", n)
	}
}

func TestDecodeNumberInfNaN(t *testing.T) {
	n := decodeNumStr(t, "Infinity", numberOptions{allowInfNaN: true})
	if n.Kind != NumFloat || !math.IsInf(n.Float, 1) {
		t.Fatalf("got %+v", n)
	}
	n = decodeNumStr(t, "-Infinity", numberOptions{allowInfNaN: true})
	if !math.IsInf(n.Float, -1) {
		t.Fatalf("got %+v", n)
	}
	n = decodeNumStr(t, "NaN", numberOptions{allowInfNaN: true})
	if !math.IsNaN(n.Float) {
		t.Fatalf("got %+v", n)
	}
}

func TestDecodeNumberInfNaNRejectedByDefault(t *testing.T) {
	c := newCursor([]byte("NaN"))
	_, err := decodeNumber(&c, numberOptions{})
	if err == nil {
		t.Fatal("expected error for NaN without allowInfNaN")
	}
}

func TestDecodeNumberRejectsLeadingZeroDigits(t *testing.T) {
	c := newCursor([]byte("01"))
	_, err := decodeNumber(&c, numberOptions{allowBigInt: true})
	if err == nil || err.Kind != InvalidNumber {
		t.Fatalf("got %v, want InvalidNumber", err)
	}
	if err.Pos != 0 {
		t.Fatalf("error at %d, want 0 (start of the literal)", err.Pos)
	}
}

func TestDecodeNumberMissingExponentDigitsErrors(t *testing.T) {
	c := newCursor([]byte("1e"))
	_, err := decodeNumber(&c, numberOptions{allowBigInt: true})
	if err == nil {
		t.Fatal("expected error for truncated exponent")
	}
}

func TestNumberAsFloat(t *testing.T) {
	n := Number{Kind: NumInt, Int: 7}
	if n.AsFloat() != 7.0 {
		t.Fatalf("AsFloat() = %v", n.AsFloat())
	}
}

func TestDecodeNumberNegativeZeroRoundTripsToNegativeFloat(t *testing.T) {
	n := decodeNumStr(t, "-0", numberOptions{allowBigInt: true})
	if n.Kind != NumInt || n.Int != 0 {
		t.Fatalf("got %+v, want Int(0)", n)
	}
	f := n.AsFloat()
	if f != 0 || !math.Signbit(f) {
		t.Fatalf("AsFloat() = %v, want -0.0", f)
	}
}

func TestDecodeNumberPositiveZeroStaysPositiveFloat(t *testing.T) {
	n := decodeNumStr(t, "0", numberOptions{allowBigInt: true})
	f := n.AsFloat()
	if f != 0 || math.Signbit(f) {
		t.Fatalf("AsFloat() = %v, want +0.0", f)
	}
}
