package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// DefaultEncodings is the order encodings are tried in. UTF-8 validity is
// exact, so it goes first; ISO-8859-1 accepts any byte and goes last.
var DefaultEncodings = []string{"utf-8", "gbk", "gb18030", "iso-8859-1"}

var codecs = map[string]encoding.Encoding{
	"gbk":        simplifiedchinese.GBK,
	"gb18030":    simplifiedchinese.GB18030,
	"iso-8859-1": charmap.ISO8859_1,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrUndecodable is returned when no encoding produced clean text.
var ErrUndecodable = errors.New("no encoding could decode the input")

// Attempt records one decoding try.
type Attempt struct {
	Encoding string
	Err      error
}

// DecodeResult is the outcome of Decode: the text, the encoding that
// produced it, and every attempt made along the way.
type DecodeResult struct {
	Text     string
	Encoding string
	Attempts []Attempt
}

// OK reports whether an encoding succeeded.
func (r *DecodeResult) OK() bool {
	return r.Encoding != ""
}

func (r *DecodeResult) String() string {
	parts := make([]string, len(r.Attempts))
	for i, a := range r.Attempts {
		if a.Err != nil {
			parts[i] = a.Encoding + ": " + a.Err.Error()
		} else {
			parts[i] = a.Encoding + ": ok"
		}
	}
	return strings.Join(parts, "; ")
}

// Decode converts data to UTF-8 text, trying each encoding in turn (or
// DefaultEncodings when none are given). A decoder that has to substitute
// replacement characters counts as a failure.
func Decode(data []byte, encodings ...string) (*DecodeResult, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	res := &DecodeResult{}
	for _, name := range encodings {
		text, err := decodeAs(data, strings.ToLower(name))
		res.Attempts = append(res.Attempts, Attempt{Encoding: name, Err: err})
		if err == nil {
			res.Text = text
			res.Encoding = name
			return res, nil
		}
	}
	return res, fmt.Errorf("%w (%s)", ErrUndecodable, res)
}

func decodeAs(data []byte, name string) (string, error) {
	if name == "utf-8" || name == "utf8" {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", errors.New("invalid utf-8 sequence")
		}
		return string(data), nil
	}

	enc, ok := codecs[name]
	if !ok {
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	if bytes.ContainsRune(out, utf8.RuneError) && !bytes.ContainsRune(data, utf8.RuneError) {
		return "", errors.New("invalid byte sequence")
	}
	return string(out), nil
}
