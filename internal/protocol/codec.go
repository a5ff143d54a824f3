package protocol

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const contentLengthField = "Content-Length"

// headerTerminator ends the header block; the payload follows immediately.
var headerTerminator = []byte("\r\n\r\n")

// Message is one complete wire message. The body is immutable once decoded.
type Message struct {
	Body []byte
}

// Limits constrains decode/encode memory use.
type Limits struct {
	MaxHeaderBytes  int
	MaxPayloadBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxHeaderBytes:  16 * 1024,
		MaxPayloadBytes: 16 * 1024 * 1024,
	}
}

// Decoder turns an arbitrarily chunked byte stream into discrete messages.
// Partial input accumulates across Feed calls; a single Feed may yield any
// number of complete messages.
type Decoder struct {
	limits Limits
	buf    bytes.Buffer
	need   int // pending payload length, -1 when no header has been parsed
}

func NewDecoder(limits Limits) *Decoder {
	return &Decoder{limits: limits, need: -1}
}

// Feed appends p to the accumulated input and returns every message that is
// now complete, in wire order. A framing error poisons the stream: messages
// decoded before the error are still returned alongside it.
func (d *Decoder) Feed(p []byte) ([]Message, error) {
	d.buf.Write(p)
	var out []Message
	for {
		if d.need < 0 {
			i := bytes.Index(d.buf.Bytes(), headerTerminator)
			if i < 0 {
				if d.buf.Len() > d.limits.MaxHeaderBytes {
					return out, ErrHeaderTooLarge
				}
				return out, nil
			}
			need, err := parseHeaderBlock(d.buf.Next(i+len(headerTerminator)), d.limits)
			if err != nil {
				return out, err
			}
			d.need = need
		}
		if d.buf.Len() < d.need {
			return out, nil
		}
		body := make([]byte, d.need)
		if _, err := io.ReadFull(&d.buf, body); err != nil {
			return out, err
		}
		out = append(out, Message{Body: body})
		d.need = -1
	}
}

// Close reports whether the stream ended cleanly on a frame boundary.
func (d *Decoder) Close() error {
	if d.need >= 0 || d.buf.Len() > 0 {
		return ErrConnectionClosed
	}
	return nil
}

// WriteMessage encodes m and writes header plus payload as a single write, so
// frames never interleave on the stream.
func WriteMessage(w io.Writer, m Message, limits Limits) error {
	if len(m.Body) > limits.MaxPayloadBytes {
		return ErrPayloadTooLarge
	}
	var buf bytes.Buffer
	buf.Grow(len(m.Body) + 32)
	fmt.Fprintf(&buf, "%s: %d\r\n\r\n", contentLengthField, len(m.Body))
	buf.Write(m.Body)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return nil
}

// parseHeaderBlock extracts the declared payload length from one header block
// including its terminator. Unknown header fields are tolerated.
func parseHeaderBlock(block []byte, limits Limits) (int, error) {
	block = bytes.TrimSuffix(block, headerTerminator)
	length := -1
	for _, line := range bytes.Split(block, []byte("\r\n")) {
		name, value, ok := bytes.Cut(line, []byte(":"))
		if !ok {
			return 0, ErrInvalidHeader
		}
		if !strings.EqualFold(string(name), contentLengthField) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(string(value)))
		if err != nil || n < 0 {
			return 0, ErrInvalidLength
		}
		length = n
	}
	if length < 0 {
		return 0, ErrInvalidHeader
	}
	if length > limits.MaxPayloadBytes {
		return 0, ErrPayloadTooLarge
	}
	return length, nil
}
