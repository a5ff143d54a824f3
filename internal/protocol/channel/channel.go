package channel

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/calleva/dapd/internal/protocol"
)

// queueDepth bounds each direction of the frame queues.
const queueDepth = 16

var ErrChannelClosed = errors.New("channel: closed")

// Channel is the session-facing half of a framed connection: inbound frames
// arrive on a queue in wire order, outbound frames are queued for the pump to
// write in submission order. Exactly one session binds to one channel.
type Channel struct {
	in   chan protocol.Message
	out  chan protocol.Message
	done chan struct{}
	once sync.Once

	mu  sync.Mutex
	err error
}

// Pump drives the channel's queues against the underlying stream. It returns
// when the stream fails, the decoder reports a framing error, or the session
// closes the channel, and always leaves the stream closed.
type Pump func() error

// Split wraps a framed stream into a session handle and its pump unit. The
// pump must be scheduled concurrently with session logic; neither side blocks
// the other beyond queue backpressure.
func Split(stream io.ReadWriteCloser) (*Channel, Pump) {
	c := &Channel{
		in:   make(chan protocol.Message, queueDepth),
		out:  make(chan protocol.Message, queueDepth),
		done: make(chan struct{}),
	}
	return c, func() error { return c.pump(stream) }
}

// Recv returns the next inbound frame in wire order. It fails with
// ErrChannelClosed once the channel is closed, or with the underlying stream
// error once the pump has stopped.
func (c *Channel) Recv(ctx context.Context) (protocol.Message, error) {
	select {
	case m, ok := <-c.in:
		if !ok {
			return protocol.Message{}, c.closeReason()
		}
		return m, nil
	case <-ctx.Done():
		return protocol.Message{}, ctx.Err()
	}
}

// Send queues one frame for output. Frames are written to the wire whole, in
// the exact order sent.
func (c *Channel) Send(ctx context.Context, m protocol.Message) error {
	select {
	case <-c.done:
		return c.closeReason()
	default:
	}
	select {
	case c.out <- m:
		return nil
	case <-c.done:
		return c.closeReason()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals session completion. The pump drains frames already queued for
// output, then tears the stream down.
func (c *Channel) Close() {
	c.closeWith(nil)
}

func (c *Channel) closeWith(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Channel) closeReason() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	return ErrChannelClosed
}

func (c *Channel) pump(stream io.ReadWriteCloser) error {
	readErr := make(chan error, 1)
	go func() {
		readErr <- c.readLoop(stream)
	}()

	var err error
loop:
	for {
		select {
		case m := <-c.out:
			if werr := protocol.WriteMessage(stream, m, protocol.DefaultLimits()); werr != nil {
				err = werr
				break loop
			}
		case err = <-readErr:
			readErr = nil
			break loop
		case <-c.done:
			c.flush(stream)
			break loop
		}
	}

	// Unblock the read loop; a close-triggered read error is expected.
	stream.Close()
	if readErr != nil {
		rerr := <-readErr
		if err == nil {
			err = rerr
		}
	}
	c.closeWith(err)
	close(c.in)
	return err
}

// flush writes frames that session logic queued before closing the channel.
func (c *Channel) flush(stream io.Writer) {
	for {
		select {
		case m := <-c.out:
			if err := protocol.WriteMessage(stream, m, protocol.DefaultLimits()); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Channel) readLoop(r io.Reader) error {
	dec := protocol.NewDecoder(protocol.DefaultLimits())
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			msgs, derr := dec.Feed(buf[:n])
			for _, m := range msgs {
				select {
				case c.in <- m:
				case <-c.done:
					return nil
				}
			}
			if derr != nil {
				return derr
			}
		}
		if err != nil {
			select {
			case <-c.done:
				return nil
			default:
			}
			if errors.Is(err, io.EOF) {
				return dec.Close()
			}
			if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				return protocol.ErrConnectionClosed
			}
			return err
		}
	}
}
