// Package headerdecode decodes RFC 2047 encoded-words and converts
// non-UTF-8 header and text-part charsets to UTF-8, the way a mail
// client needs to before handing ENVELOPE fields or header values to a
// caller (spec §4.H).
package headerdecode

import (
	"fmt"
	"io"
	"mime"

	"github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding/ianaindex"
)

// Decoder turns a raw header field value, possibly containing RFC 2047
// encoded-words in an arbitrary charset, into a UTF-8 string. Sessions
// accept an injected Decoder (spec §4.H: "independent of Session") so
// callers can swap in their own charset policy without touching the
// wire layer.
type Decoder interface {
	// DecodeHeader decodes a single unstructured header field value.
	DecodeHeader(raw string) (string, error)
	// DecodeText wraps r so reads from it yield UTF-8, given the
	// charset name from a Content-Type parameter (empty means
	// US-ASCII/UTF-8 and r is returned unchanged).
	DecodeText(r io.Reader, charsetName string) (io.Reader, error)
}

// Default returns the standard Decoder, built on go-message's charset
// package (which itself wraps golang.org/x/text/encoding for the
// non-UTF-8 charsets it recognizes).
func Default() Decoder {
	return defaultDecoder{}
}

type defaultDecoder struct{}

func (defaultDecoder) DecodeHeader(raw string) (string, error) {
	dec := &mime.WordDecoder{CharsetReader: charset.Reader}
	decoded, err := dec.DecodeHeader(raw)
	if err != nil {
		return raw, nil
	}
	return decoded, nil
}

func (defaultDecoder) DecodeText(r io.Reader, charsetName string) (io.Reader, error) {
	if charsetName == "" {
		return r, nil
	}
	cr, err := charset.Reader(charsetName, r)
	if err == nil {
		return cr, nil
	}
	// go-message's table is not exhaustive; fall back to the IANA charset
	// registry for names it doesn't recognize (e.g. some of the lesser-used
	// aliases servers still advertise in a Content-Type parameter).
	enc, ianaErr := ianaindex.IANA.Encoding(charsetName)
	if ianaErr != nil || enc == nil {
		return nil, fmt.Errorf("headerdecode: unknown charset %q: %w", charsetName, err)
	}
	return enc.NewDecoder().Reader(r), nil
}
