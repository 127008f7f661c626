package jiter

import (
	"math"
	"math/big"
	"strconv"
)

// NumberKind tags the four decoded-number variants from spec §3/§4.3.
type NumberKind uint8

const (
	NumInt NumberKind = iota
	NumBigInt
	NumFloat
	NumFloatLossless
)

// Number is the tagged union produced by decodeNumber. Exactly one of
// Int/BigInt/Float/Raw is meaningful, selected by Kind.
type Number struct {
	Kind    NumberKind
	Int     int64
	BigInt  *big.Int
	Float   float64
	Raw     []byte // verbatim literal bytes, populated for NumFloatLossless
	NegZero bool   // true for the literal "-0": Int stays 0, but AsFloat must yield -0.0
}

// scannedNumber is the result of scanNumber, which scans one JSON number
// literal (plus, optionally, the Infinity/-Infinity/NaN atoms) starting at
// the cursor's current position (whitespace already skipped by the
// caller's peek). It reports the raw
// byte span, whether a '.' or exponent was seen (isFloat), and whether the
// literal was a non-finite atom.
type scannedNumber struct {
	raw      []byte
	isFloat  bool
	nonFinite bool
}

func scanNumber(c *cursor, allowInfNaN bool) (scannedNumber, *Error) {
	start := c.pos
	neg := false
	if b, ok := c.peekRaw(); ok && b == '-' {
		neg = true
		c.pos++
	}

	if b, ok := c.peekRaw(); ok && (b == 'I' || b == 'N') {
		if !allowInfNaN {
			return scannedNumber{}, newErr(InvalidNumber, start)
		}
		if neg {
			if !c.eatLiteral("Infinity") {
				return scannedNumber{}, newErr(InvalidNumber, start)
			}
		} else if !c.eatLiteral("Infinity") && !c.eatLiteral("NaN") {
			return scannedNumber{}, newErr(InvalidNumber, start)
		}
		return scannedNumber{raw: c.buf[start:c.pos], isFloat: true, nonFinite: true}, nil
	}

	digitsStart := c.pos
	b, ok := c.peekRaw()
	if !ok {
		return scannedNumber{}, newErr(EOFWhileParsingValue, start)
	}
	if b < '0' || b > '9' {
		return scannedNumber{}, newErr(InvalidNumber, start)
	}
	if b == '0' {
		c.pos++
		if b, ok := c.peekRaw(); ok && b >= '0' && b <= '9' {
			return scannedNumber{}, newErr(InvalidNumber, start)
		}
	} else {
		for {
			b, ok := c.peekRaw()
			if !ok || b < '0' || b > '9' {
				break
			}
			c.pos++
		}
	}
	_ = digitsStart

	isFloat := false
	if b, ok := c.peekRaw(); ok && b == '.' {
		isFloat = true
		c.pos++
		fracStart := c.pos
		for {
			b, ok := c.peekRaw()
			if !ok || b < '0' || b > '9' {
				break
			}
			c.pos++
		}
		if c.pos == fracStart {
			return scannedNumber{}, newErr(InvalidNumber, start)
		}
	}
	if b, ok := c.peekRaw(); ok && (b == 'e' || b == 'E') {
		isFloat = true
		c.pos++
		if b, ok := c.peekRaw(); ok && (b == '+' || b == '-') {
			c.pos++
		}
		expStart := c.pos
		for {
			b, ok := c.peekRaw()
			if !ok || b < '0' || b > '9' {
				break
			}
			c.pos++
		}
		if c.pos == expStart {
			return scannedNumber{}, newErr(InvalidNumber, start)
		}
	}

	return scannedNumber{raw: c.buf[start:c.pos], isFloat: isFloat}, nil
}

// numberOptions carries the subset of ParserOptions the number decoder
// needs, kept separate from the full options struct so number.go can be
// read (and tested) without pulling in the rest of the parser.
type numberOptions struct {
	allowInfNaN    bool
	allowBigInt    bool
	losslessFloats bool
}

// decodeNumber implements spec §4.3's pipeline: classify once, decode once.
func decodeNumber(c *cursor, opt numberOptions) (Number, *Error) {
	start := c.pos
	sn, err := scanNumber(c, opt.allowInfNaN)
	if err != nil {
		return Number{}, err
	}

	if sn.nonFinite {
		f, _ := strconv.ParseFloat(string(sn.raw), 64)
		return Number{Kind: NumFloat, Float: f}, nil
	}

	if !sn.isFloat {
		if i, convErr := strconv.ParseInt(string(sn.raw), 10, 64); convErr == nil {
			negZero := i == 0 && len(sn.raw) > 0 && sn.raw[0] == '-'
			return Number{Kind: NumInt, Int: i, NegZero: negZero}, nil
		}
		if !opt.allowBigInt {
			f, convErr := strconv.ParseFloat(string(sn.raw), 64)
			if convErr != nil {
				return Number{}, newErr(NumberOutOfRange, start)
			}
			return Number{Kind: NumFloat, Float: f}, nil
		}
		bi, ok := new(big.Int).SetString(string(sn.raw), 10)
		if !ok {
			return Number{}, newErr(InvalidNumber, start)
		}
		return Number{Kind: NumBigInt, BigInt: bi}, nil
	}

	if opt.losslessFloats {
		return Number{Kind: NumFloatLossless, Raw: sn.raw}, nil
	}
	f, convErr := strconv.ParseFloat(string(sn.raw), 64)
	if convErr != nil {
		if ne, isNum := convErr.(*strconv.NumError); isNum && ne.Err == strconv.ErrRange {
			if !opt.allowInfNaN {
				return Number{}, newErr(NumberOutOfRange, start)
			}
			// f already holds ±Inf per strconv's ErrRange contract.
		} else {
			return Number{}, newErr(InvalidNumber, start)
		}
	}
	if math.IsInf(f, 0) && !opt.allowInfNaN {
		return Number{}, newErr(NumberOutOfRange, start)
	}
	return Number{Kind: NumFloat, Float: f}, nil
}

// AsFloat converts any decoded number to float64, matching the teacher's
// Iter.Float()'s "integers are automatically converted" contract.
func (n Number) AsFloat() float64 {
	switch n.Kind {
	case NumInt:
		if n.NegZero {
			return math.Copysign(0, -1)
		}
		return float64(n.Int)
	case NumBigInt:
		f := new(big.Float).SetInt(n.BigInt)
		v, _ := f.Float64()
		return v
	case NumFloat:
		return n.Float
	case NumFloatLossless:
		v, _ := strconv.ParseFloat(string(n.Raw), 64)
		return v
	}
	return 0
}
