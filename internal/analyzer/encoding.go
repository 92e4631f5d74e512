package analyzer

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sells-group/csvforge/internal/model"
)

// minEncodingConfidence is the chardet confidence (0-100) below which
// the detector result is discarded in favor of the UTF-8 default.
const minEncodingConfidence = 40

// detectEncoding returns a normalized encoding name for the raw
// sample. BOMs and valid UTF-8 resolve directly; everything else goes
// through the statistical charset detector. Any detector failure or
// low-confidence result yields the UTF-8 default.
func detectEncoding(sample []byte) (string, error) {
	if len(sample) == 0 {
		return "utf-8", nil
	}

	switch {
	case bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}):
		return "utf-8", nil
	case bytes.HasPrefix(sample, []byte{0xFF, 0xFE}):
		return "utf-16le", nil
	case bytes.HasPrefix(sample, []byte{0xFE, 0xFF}):
		return "utf-16be", nil
	}
	if utf8.Valid(sample) {
		return "utf-8", nil
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return "utf-8", eris.Wrap(err, "analyzer: charset detection")
	}
	if result.Confidence < minEncodingConfidence {
		return "utf-8", nil
	}

	return normalizeEncoding(result.Charset), nil
}

// normalizeEncoding maps detector charset names onto the encodings the
// decoder supports, defaulting unknown names to UTF-8.
func normalizeEncoding(name string) string {
	switch strings.ToLower(name) {
	case "utf-8", "ascii", "us-ascii":
		return "utf-8"
	case "utf-16le":
		return "utf-16le"
	case "utf-16be":
		return "utf-16be"
	case "iso-8859-1", "latin-1", "latin1":
		return "iso-8859-1"
	case "windows-1252", "cp1252":
		return "windows-1252"
	default:
		return "utf-8"
	}
}

// decoderFor returns the x/text decoder for a normalized encoding name.
// ISO-8859-1 is the universal fallback: every byte sequence decodes.
func decoderFor(name string) *encoding.Decoder {
	switch name {
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder()
	case "windows-1252":
		return charmap.Windows1252.NewDecoder()
	default:
		// UTF8BOM strips a leading byte-order mark if present.
		return unicode.UTF8BOM.NewDecoder()
	}
}

// OpenDecoded opens path and returns a reader yielding UTF-8 text
// decoded from the given encoding, with any leading BOM stripped.
func OpenDecoded(path, encodingName string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Wrapf(model.ErrNotFound, "analyzer: open %s", path)
		}
		return nil, eris.Wrapf(err, "analyzer: open %s", path)
	}

	r := transform.NewReader(f, decoderFor(normalizeEncoding(encodingName)))
	return &decodedReader{Reader: r, closer: f}, nil
}

type decodedReader struct {
	io.Reader
	closer io.Closer
}

func (d *decodedReader) Close() error { return d.closer.Close() }

// decodeSample decodes raw sample bytes to UTF-8 text, falling back to
// ISO-8859-1 when the declared encoding produces garbage. ISO-8859-1
// never fails, so a DecodeError here is unreachable in practice.
func decodeSample(sample []byte, encodingName string) (string, error) {
	out, _, err := transform.Bytes(decoderFor(normalizeEncoding(encodingName)), sample)
	if err == nil {
		return string(out), nil
	}

	out, _, err = transform.Bytes(charmap.ISO8859_1.NewDecoder(), sample)
	if err != nil {
		return "", eris.Wrap(model.ErrDecode, "analyzer: decode sample")
	}
	return string(out), nil
}
