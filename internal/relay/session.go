// Package relay converts the upstream's chunked feed of newline-delimited
// JSON frames into a continuous stream of plain text deltas on the client
// connection. Chunk boundaries carry no meaning: a chunk may hold zero, one,
// or many complete frames, and a frame may be split across chunks, so each
// session keeps an explicit carry-over buffer and only ever parses
// newline-terminated lines.
package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// readChunkSize is the upstream read granularity. Frames are small (one
// token delta each), so 4 KiB keeps latency low without thrashing reads.
const readChunkSize = 4096

// State represents the lifecycle of one relay session
type State int

const (
	// StateActive - Receiving upstream chunks
	StateActive State = iota
	// StateCompleted - Upstream closed cleanly
	StateCompleted
	// StateFailed - Upstream transport error or client write failure
	StateFailed
)

// ErrSessionClosed is returned when bytes are offered to a terminal session
var ErrSessionClosed = errors.New("relay session is closed")

// Flusher is implemented by sinks that buffer writes (e.g. bufio.Writer).
// When the sink supports it, every delta is flushed immediately so the
// client sees tokens as they are generated.
type Flusher interface {
	Flush() error
}

// frame is one decoded upstream streaming unit
type frame struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Session owns the live state of one streaming relay operation. Each
// session belongs to exactly one client request; buffers are never shared.
type Session struct {
	id    string
	sink  io.Writer
	buf   []byte
	state State

	forwarded int
	dropped   int
	written   int64
}

// NewSession creates a relay session writing decoded deltas to sink
func NewSession(id string, sink io.Writer) *Session {
	return &Session{
		id:    id,
		sink:  sink,
		state: StateActive,
	}
}

// Consume appends one upstream chunk to the carry-over buffer and processes
// every complete line it now holds. A trailing unterminated line stays
// buffered for the next chunk. The only error returned is a sink write
// failure; malformed frames are dropped and counted, never fatal.
func (s *Session) Consume(chunk []byte) error {
	if s.state != StateActive {
		return ErrSessionClosed
	}

	s.buf = append(s.buf, chunk...)

	for {
		idx := bytes.IndexByte(s.buf, '\n')
		if idx < 0 {
			return nil
		}
		line := s.buf[:idx]
		s.buf = s.buf[idx+1:]

		if err := s.forwardLine(line); err != nil {
			return err
		}
	}
}

// forwardLine parses one complete line as a frame and forwards its delta
func (s *Session) forwardLine(line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	var f frame
	if err := json.Unmarshal(line, &f); err != nil {
		s.dropped++
		logrus.Warnf("Relay session %s: dropping malformed frame: %v", s.id, err)
		return nil
	}

	if f.Done {
		logrus.Debugf("Relay session %s: received terminator frame", s.id)
	}

	if f.Message.Content == "" {
		return nil
	}

	n, err := io.WriteString(s.sink, f.Message.Content)
	s.written += int64(n)
	if err != nil {
		return err
	}
	s.forwarded++

	if fl, ok := s.sink.(Flusher); ok {
		if err := fl.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Run drives the session: reads upstream chunks sequentially until the feed
// ends, the upstream transport fails, or the client sink rejects a write.
// The returned error is for internal logging only; by the time streaming has
// begun the client can only ever observe data or a clean close.
func (s *Session) Run(ctx context.Context, src io.Reader) error {
	chunk := make([]byte, readChunkSize)

	for {
		select {
		case <-ctx.Done():
			s.state = StateFailed
			return fmt.Errorf("relay cancelled: %w", ctx.Err())
		default:
		}

		n, err := src.Read(chunk)
		if n > 0 {
			if werr := s.Consume(chunk[:n]); werr != nil {
				s.state = StateFailed
				return fmt.Errorf("client sink write failed: %w", werr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.finish()
				return nil
			}
			s.state = StateFailed
			return fmt.Errorf("upstream stream failed: %w", err)
		}
	}
}

// finish completes the session. Any unterminated trailing partial line is
// discarded: it was never validated as complete JSON, so force-parsing it
// would forward garbage. This loss is part of the contract.
func (s *Session) finish() {
	if len(s.buf) > 0 {
		logrus.Debugf("Relay session %s: discarding %d-byte unterminated trailing line", s.id, len(s.buf))
		s.buf = nil
	}
	s.state = StateCompleted
	logrus.Debugf("Relay session %s: completed, forwarded=%d dropped=%d bytes=%d",
		s.id, s.forwarded, s.dropped, s.written)
}

// State returns the session's terminal state
func (s *Session) State() State {
	return s.state
}

// FramesForwarded returns the count of frames whose deltas reached the sink
func (s *Session) FramesForwarded() int {
	return s.forwarded
}

// FramesDropped returns the count of malformed frames discarded
func (s *Session) FramesDropped() int {
	return s.dropped
}

// BytesWritten returns the total delta bytes written to the sink
func (s *Session) BytesWritten() int64 {
	return s.written
}
