package jiter

import "unicode/utf8"

// PartialStringMode controls what happens when EOF interrupts a string
// literal (spec §4.2's "Partial mode interaction").
type PartialStringMode uint8

const (
	PartialOff PartialStringMode = iota
	PartialOn
	PartialTrailingStrings
)

// DecodedString is the two-variant decoded-string type from spec §3/§9:
// Borrowed references input bytes directly (no copy); Owned holds a
// freshly allocated buffer built while expanding escapes.
type DecodedString struct {
	Bytes    []byte
	Borrowed bool
	// Partial is true when this value is a truncated-but-accepted string
	// produced under PartialTrailingStrings.
	Partial bool
}

// decodeString implements spec §4.2. The cursor must sit on the opening
// quote; on success it sits one byte past the closing quote.
func decodeString(c *cursor, partial PartialStringMode) (DecodedString, *Error) {
	quoteAt := c.pos
	if !c.eat('"') {
		return DecodedString{}, newErr(ExpectedSomeValue, quoteAt)
	}
	start := c.pos

	// Fast scan: look for '"', '\\', or any control byte.
	for i := start; i < len(c.buf); i++ {
		b := c.buf[i]
		switch {
		case b == '"':
			span := c.buf[start:i]
			if !utf8.Valid(span) {
				return DecodedString{}, newErr(InvalidString, start)
			}
			c.pos = i + 1
			return DecodedString{Bytes: span, Borrowed: true}, nil
		case b == '\\':
			return decodeStringEscaped(c, start, i, partial)
		case b < 0x20:
			return DecodedString{}, newErr(ControlCharacterInString, i)
		}
	}

	// Ran off the end without a closing quote: no escapes seen, so the
	// un-escaped span up to EOF is the best-effort partial content.
	switch partial {
	case PartialTrailingStrings:
		span := c.buf[start:]
		c.pos = len(c.buf)
		return DecodedString{Bytes: span, Borrowed: true, Partial: true}, nil
	default:
		return DecodedString{}, newErr(EOFWhileParsingString, start)
	}
}

// decodeStringEscaped handles the owned-buffer path once a backslash has
// been found at c.buf[escAt]. prefixStart is the start of the string body.
func decodeStringEscaped(c *cursor, prefixStart, escAt int, partial PartialStringMode) (DecodedString, *Error) {
	buf := c.buf
	out := make([]byte, 0, (escAt-prefixStart)+8)
	out = append(out, buf[prefixStart:escAt]...)
	i := escAt

	eof := func(at int) (DecodedString, *Error) {
		if partial == PartialTrailingStrings {
			c.pos = len(buf)
			return DecodedString{Bytes: out, Borrowed: false, Partial: true}, nil
		}
		return DecodedString{}, newErr(EOFWhileParsingString, at)
	}

	for i < len(buf) {
		b := buf[i]
		switch {
		case b == '"':
			c.pos = i + 1
			return DecodedString{Bytes: out, Borrowed: false}, nil
		case b == '\\':
			escStart := i
			i++
			if i >= len(buf) {
				return eof(escStart)
			}
			switch buf[i] {
			case '"':
				out = append(out, '"')
				i++
			case '\\':
				out = append(out, '\\')
				i++
			case '/':
				out = append(out, '/')
				i++
			case 'b':
				out = append(out, '\b')
				i++
			case 'f':
				out = append(out, '\f')
				i++
			case 'n':
				out = append(out, '\n')
				i++
			case 'r':
				out = append(out, '\r')
				i++
			case 't':
				out = append(out, '\t')
				i++
			case 'u':
				r, next, uerr := decodeUnicodeEscape(buf, i+1, escStart)
				if uerr != nil {
					return DecodedString{}, uerr
				}
				// Combine a high surrogate with a following \uXXXX low
				// surrogate into one scalar value.
				if utf16IsHighSurrogate(r) {
					if next+6 <= len(buf) && buf[next] == '\\' && buf[next+1] == 'u' {
						r2, next2, uerr2 := decodeUnicodeEscape(buf, next+2, escStart)
						if uerr2 == nil && utf16IsLowSurrogate(r2) {
							combined := utf16Combine(r, r2)
							var tmp [4]byte
							n := utf8.EncodeRune(tmp[:], combined)
							out = append(out, tmp[:n]...)
							i = next2
							continue
						}
					}
					return DecodedString{}, newErr(InvalidUnicodeCodePoint, escStart)
				}
				if utf16IsLowSurrogate(r) {
					return DecodedString{}, newErr(InvalidUnicodeCodePoint, escStart)
				}
				var tmp [4]byte
				n := utf8.EncodeRune(tmp[:], r)
				out = append(out, tmp[:n]...)
				i = next
			default:
				return DecodedString{}, newErr(InvalidEscape, escStart)
			}
		case b < 0x20:
			return DecodedString{}, newErr(ControlCharacterInString, i)
		default:
			out = append(out, b)
			i++
		}
	}
	return eof(i)
}

// skipString scans a string literal positioned at its opening quote
// without materializing any decoded content, the non-materializing
// counterpart to decodeString used by the skip path (spec §4.6/§9): it
// only tracks quoting, so an escaped quote doesn't end the literal early,
// and reports the same EOF/control-char errors decodeString would.
func skipString(c *cursor) *Error {
	quoteAt := c.pos
	if !c.eat('"') {
		return newErr(ExpectedSomeValue, quoteAt)
	}
	buf := c.buf
	i := c.pos
	for i < len(buf) {
		b := buf[i]
		switch {
		case b == '"':
			c.pos = i + 1
			return nil
		case b == '\\':
			i++
			if i >= len(buf) {
				c.pos = len(buf)
				return newErr(EOFWhileParsingString, quoteAt)
			}
			i++ // skip the escaped byte itself, e.g. the quote in \"
		case b < 0x20:
			c.pos = i
			return newErr(ControlCharacterInString, i)
		default:
			i++
		}
	}
	c.pos = len(buf)
	return newErr(EOFWhileParsingString, quoteAt)
}

// decodeUnicodeEscape parses the four hex digits of a \uXXXX escape
// starting at pos (one past the 'u'). It returns the code unit and the
// index just past the four digits.
func decodeUnicodeEscape(buf []byte, pos, escStart int) (rune, int, *Error) {
	if pos+4 > len(buf) {
		return 0, 0, newErr(EOFWhileParsingString, escStart)
	}
	var v rune
	for i := 0; i < 4; i++ {
		v <<= 4
		b := buf[pos+i]
		switch {
		case b >= '0' && b <= '9':
			v |= rune(b - '0')
		case b >= 'a' && b <= 'f':
			v |= rune(b-'a') + 10
		case b >= 'A' && b <= 'F':
			v |= rune(b-'A') + 10
		default:
			return 0, 0, newErr(InvalidUnicodeCodePoint, escStart)
		}
	}
	return v, pos + 4, nil
}

func utf16IsHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }
func utf16IsLowSurrogate(r rune) bool  { return r >= 0xDC00 && r <= 0xDFFF }

func utf16Combine(hi, lo rune) rune {
	return 0x10000 + (hi-0xD800)<<10 + (lo - 0xDC00)
}
