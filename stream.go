package jiter

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the 4-byte frame magic number every zstd frame starts
// with; DecodeNDStream sniffs it to decide whether to wrap r in a zstd
// reader, so callers never have to know ahead of time whether their
// NDJSON happens to be compressed.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// NDResult is one decoded line of an NDJSON stream (spec §4.9's
// supplemented streaming mode): exactly one of Value/Err is set, and
// LineNo is 1-based so it can be reported straight to a user.
type NDResult struct {
	Value  *Value
	Err    error
	LineNo int
}

// DecodeND decodes a complete in-memory newline-delimited JSON document,
// one Value per non-blank line, stopping at the first decode error.
func DecodeND(data []byte, opts ...ParserOption) ([]*Value, error) {
	var out []*Value
	lineNo := 0
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		lineNo++
		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		v, err := Parse(line, opts...)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeNDStream decodes NDJSON from r one line at a time, transparently
// zstd-decompressing first if r's leading bytes carry a zstd frame magic
// number. Results stream back on the returned channel in line order; the
// channel is closed once r is exhausted or reading from r fails.
// A decode error on one line does not stop the scan — it is reported on
// the channel like any other result, matching NDJSON's "bad lines are
// isolated" expectation — but an I/O error from r itself ends the stream.
func DecodeNDStream(r io.Reader, opts ...ParserOption) (<-chan NDResult, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	peeked, err := br.Peek(len(zstdMagic))
	src := io.Reader(br)
	if err == nil && bytes.Equal(peeked, zstdMagic) {
		zr, zerr := zstd.NewReader(br)
		if zerr != nil {
			return nil, zerr
		}
		src = zr
	}

	out := make(chan NDResult)
	go func() {
		defer close(out)
		if zr, ok := src.(*zstd.Decoder); ok {
			defer zr.Close()
		}
		scanner := bufio.NewScanner(src)
		scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			// scanner.Bytes() is only valid until the next Scan() call, so
			// the line is copied before parsing — otherwise any borrowed
			// string in a Value sent on out would be silently overwritten
			// as soon as the scan moves on (spec §9's borrowed-string
			// lifetime rule, violated by a reused scanner buffer).
			owned := make([]byte, len(line))
			copy(owned, line)
			v, perr := Parse(owned, opts...)
			if perr != nil {
				out <- NDResult{Err: perr, LineNo: lineNo}
				continue
			}
			out <- NDResult{Value: v, LineNo: lineNo}
		}
		if serr := scanner.Err(); serr != nil {
			out <- NDResult{Err: serr, LineNo: lineNo + 1}
		}
	}()
	return out, nil
}
