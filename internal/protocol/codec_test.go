package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func encodeAll(t *testing.T, msgs []Message) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		if err := WriteMessage(&buf, m, DefaultLimits()); err != nil {
			t.Fatalf("write message: %v", err)
		}
	}
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	in := Message{Body: []byte(`{"seq":1,"type":"request","command":"initialize"}`)}
	var buf bytes.Buffer
	if err := WriteMessage(&buf, in, DefaultLimits()); err != nil {
		t.Fatalf("write message: %v", err)
	}
	dec := NewDecoder(DefaultLimits())
	out, err := dec.Feed(buf.Bytes())
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 message, got %d", len(out))
	}
	if !bytes.Equal(out[0].Body, in.Body) {
		t.Fatalf("body mismatch: %q", out[0].Body)
	}
	if err := dec.Close(); err != nil {
		t.Fatalf("close on frame boundary: %v", err)
	}
}

func TestEmptyBodyRoundTrip(t *testing.T) {
	wire := encodeAll(t, []Message{{Body: nil}})
	dec := NewDecoder(DefaultLimits())
	out, err := dec.Feed(wire)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(out) != 1 || len(out[0].Body) != 0 {
		t.Fatalf("expected one empty message, got %+v", out)
	}
}

func TestChunkedArbitrarySplits(t *testing.T) {
	var msgs []Message
	for i := 0; i < 7; i++ {
		msgs = append(msgs, Message{Body: []byte(fmt.Sprintf(`{"seq":%d,"body":"%s"}`, i, bytes.Repeat([]byte{'x'}, i*13)))})
	}
	wire := encodeAll(t, msgs)

	for _, chunk := range []int{1, 2, 3, 5, 17, 64, len(wire)} {
		dec := NewDecoder(DefaultLimits())
		var got []Message
		for off := 0; off < len(wire); off += chunk {
			end := off + chunk
			if end > len(wire) {
				end = len(wire)
			}
			out, err := dec.Feed(wire[off:end])
			if err != nil {
				t.Fatalf("chunk=%d feed: %v", chunk, err)
			}
			got = append(got, out...)
		}
		if len(got) != len(msgs) {
			t.Fatalf("chunk=%d: expected %d messages, got %d", chunk, len(msgs), len(got))
		}
		for i := range msgs {
			if !bytes.Equal(got[i].Body, msgs[i].Body) {
				t.Fatalf("chunk=%d: message %d out of order or corrupted", chunk, i)
			}
		}
		if err := dec.Close(); err != nil {
			t.Fatalf("chunk=%d close: %v", chunk, err)
		}
	}
}

func TestBackToBackFramesInOneFeed(t *testing.T) {
	wire := encodeAll(t, []Message{
		{Body: []byte(`{"seq":1}`)},
		{Body: []byte(`{"seq":2}`)},
		{Body: []byte(`{"seq":3}`)},
	})
	dec := NewDecoder(DefaultLimits())
	out, err := dec.Feed(wire)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected all 3 messages from one feed, got %d", len(out))
	}
}

func TestUnknownHeaderFieldsTolerated(t *testing.T) {
	wire := []byte("Content-Type: application/json\r\nContent-Length: 2\r\n\r\n{}")
	dec := NewDecoder(DefaultLimits())
	out, err := dec.Feed(wire)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(out) != 1 || string(out[0].Body) != "{}" {
		t.Fatalf("unexpected decode result: %+v", out)
	}
}

func TestMalformedHeaderLine(t *testing.T) {
	dec := NewDecoder(DefaultLimits())
	_, err := dec.Feed([]byte("not a header line\r\n\r\n"))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestMissingContentLength(t *testing.T) {
	dec := NewDecoder(DefaultLimits())
	_, err := dec.Feed([]byte("Content-Type: application/json\r\n\r\n"))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestInvalidLengthValue(t *testing.T) {
	for _, v := range []string{"abc", "-5", "1e3"} {
		dec := NewDecoder(DefaultLimits())
		_, err := dec.Feed([]byte("Content-Length: " + v + "\r\n\r\n"))
		if !errors.Is(err, ErrInvalidLength) {
			t.Fatalf("value %q: expected ErrInvalidLength, got %v", v, err)
		}
	}
}

func TestPayloadOverLimit(t *testing.T) {
	limits := Limits{MaxHeaderBytes: 1024, MaxPayloadBytes: 8}
	dec := NewDecoder(limits)
	_, err := dec.Feed([]byte("Content-Length: 9\r\n\r\n"))
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if err := WriteMessage(&bytes.Buffer{}, Message{Body: bytes.Repeat([]byte{'a'}, 9)}, limits); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge on encode, got %v", err)
	}
}

func TestHeaderOverLimit(t *testing.T) {
	dec := NewDecoder(Limits{MaxHeaderBytes: 16, MaxPayloadBytes: 1024})
	_, err := dec.Feed(bytes.Repeat([]byte{'h'}, 32))
	if !errors.Is(err, ErrHeaderTooLarge) {
		t.Fatalf("expected ErrHeaderTooLarge, got %v", err)
	}
}

func TestStreamEndsMidFrame(t *testing.T) {
	dec := NewDecoder(DefaultLimits())
	if _, err := dec.Feed([]byte("Content-Length: 10\r\n\r\n{\"tru")); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if err := dec.Close(); !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
}

func TestStreamEndsMidHeader(t *testing.T) {
	dec := NewDecoder(DefaultLimits())
	if _, err := dec.Feed([]byte("Content-Len")); err != nil {
		t.Fatalf("feed: %v", err)
	}
	if err := dec.Close(); !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
}
