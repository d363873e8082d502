// Package stdio runs a line-oriented request/response loop over a byte
// stream, normally the process's stdin and stdout.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Handler turns one request line into one response line. A nil response
// means nothing is written.
type Handler interface {
	Handle(ctx context.Context, line []byte) []byte
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, line []byte) []byte

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, line []byte) []byte {
	return f(ctx, line)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the side-channel logger. It must not write to the
// response stream.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server processes requests strictly one at a time.
type Server struct {
	handler Handler
	logger  *slog.Logger
}

// NewServer creates a server dispatching to handler.
func NewServer(handler Handler, opts ...Option) *Server {
	s := &Server{
		handler: handler,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve reads newline-delimited requests from r and writes each response to
// w followed by a newline, flushing after every response. It returns nil when
// r reaches EOF or ctx is cancelled, and an error only when r or w fail.
//
// Cancellation does not interrupt a Read already blocked inside r; the reader
// goroutine exits once that Read returns.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go s.readLines(readCtx, r, lines, readErr)

	out := bufio.NewWriter(w)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("stopping on cancellation")
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				s.logger.Debug("input closed")
				return nil
			}
			if ctx.Err() != nil {
				s.logger.Debug("stopping on cancellation")
				return nil
			}

			resp := s.handle(ctx, line)
			if resp == nil {
				continue
			}
			if err := writeLine(out, resp); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
		}
	}
}

// handle shields the loop from handler panics.
func (s *Server) handle(ctx context.Context, line []byte) (resp []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panic", "panic", r)
			resp = nil
		}
	}()
	return s.handler.Handle(ctx, line)
}

func (s *Server) readLines(ctx context.Context, r io.Reader, lines chan<- []byte, readErr chan<- error) {
	defer close(lines)

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		// A final chunk without a newline is still a line; only an empty
		// read at EOF is not.
		if len(line) > 0 {
			select {
			case lines <- bytes.TrimRight(line, "\r\n"):
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			readErr <- err
			return
		}
	}
}

func writeLine(w *bufio.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}
