package restx

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/embworks/restx/internal/obs"
	"github.com/embworks/restx/restx/internal/http1"
)

// framingMode classifies how a request body is delimited on the wire.
type framingMode int

const (
	framingNone framingMode = iota
	framingFixed
	framingChunked
)

type framing struct {
	mode  framingMode
	fixed int64
}

// extractFraming decides body framing from the parsed headers: an explicit
// content-length wins, then transfer-encoding: chunked, else no body.
func extractFraming(headers Header) (framing, error) {
	if v, ok := headers["content-length"]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return framing{}, &ProtocolError{Kind: KindInvalidLength, Detail: v}
		}
		return framing{mode: framingFixed, fixed: n}, nil
	}
	if headers["transfer-encoding"] == "chunked" {
		return framing{mode: framingChunked}, nil
	}
	return framing{mode: framingNone}, nil
}

// handleConn serves exactly one request on c and closes it. Protocol
// failures are answered with their canned response; failures of the socket
// itself are only logged, since the socket may be unusable.
func (s *Server[T]) handleConn(c net.Conn) {
	defer c.Close()
	if s.ReadTimeout > 0 {
		_ = c.SetReadDeadline(time.Now().Add(s.ReadTimeout))
	}
	start := time.Now()
	bw := bufio.NewWriter(c)
	err := s.serveRequest(bufio.NewReaderSize(c, s.bufSize), bw)
	s.meter().Histogram("restx_request_duration_seconds", time.Since(start).Seconds())
	if err == nil {
		return
	}
	var perr *ProtocolError
	if errors.As(err, &perr) {
		s.logf(obs.Warn, "request failed: %v", perr)
		s.meter().Counter("restx_request_errors_total", 1, obs.Label{Key: "kind", Value: perr.Kind.String()})
		if werr := http1.WriteFixed(bw, perr.Status(), nil, []byte(perr.body())); werr != nil {
			s.logf(obs.Error, "write error response: %v", werr)
		}
		return
	}
	s.logf(obs.Error, "connection dropped: %v", err)
	s.meter().Counter("restx_request_errors_total", 1, obs.Label{Key: "kind", Value: "io"})
}

func (s *Server[T]) serveRequest(br *bufio.Reader, bw *bufio.Writer) error {
	rd := http1.NewReader(br)
	line, err := rd.ReadLine()
	if err == io.EOF {
		// The peer closed before sending a single byte.
		return &ProtocolError{Kind: KindNotHTTPConform}
	}
	if err != nil {
		return fmt.Errorf("read request line: %w", err)
	}
	rl, err := http1.ParseRequestLine(line)
	if err != nil {
		return &ProtocolError{Kind: KindNotHTTPConform, Detail: line}
	}
	verb, err := verbFromMethod(rl.Method)
	if err != nil {
		return err
	}
	s.meter().Counter("restx_requests_total", 1, obs.Label{Key: "verb", Value: verb.String()})
	if !strings.HasPrefix(rl.Version, "HTTP/1.1") {
		return &ProtocolError{Kind: KindUnsupportedVersion, Detail: rl.Version}
	}
	// Routing comes before header parsing: the route decides which handler
	// and therefore which body policy applies.
	fn, params, ok := s.routes.forVerb(verb).find(rl.Path)
	if !ok {
		return &ProtocolError{Kind: KindNotFound, Detail: rl.Path}
	}
	raw, err := rd.ReadHeaders()
	if err != nil {
		var herr *http1.HeaderError
		if errors.As(err, &herr) {
			return &ProtocolError{Kind: KindBadHeader, Detail: herr.Line}
		}
		return fmt.Errorf("read headers: %w", err)
	}
	headers := Header(raw)
	fr, err := extractFraming(headers)
	if err != nil {
		return err
	}
	req := &Request{Params: params, Query: rl.Query, HasQuery: rl.HasQuery, Headers: headers}
	handler := (*fn)(req, s.ctx)

	var resp *Response
	switch verb {
	case POST, PUT, PATCH:
		switch fr.mode {
		case framingFixed:
			resp, err = s.decodeFixed(rd, handler, fr.fixed)
		case framingChunked:
			resp, err = s.decodeChunked(rd, handler, headers)
		default:
			// The handler exists but its body path is never driven.
			resp = FixedString(411, nil, "Include length or send chunked")
		}
		if err != nil {
			return err
		}
	default:
		resp = handler.End(nil)
	}
	if resp == nil {
		// A nil response is a bug in handler code; still answer something.
		resp = &Response{Status: 500}
	}
	return s.writeResponse(bw, resp)
}

// decodeFixed reads a content-length delimited body. The length is checked
// against the buffer-size limit before any byte is read.
func (s *Server[T]) decodeFixed(rd *http1.Reader, handler RequestHandler, length int64) (*Response, error) {
	if length > int64(s.bufSize) {
		return nil, &ProtocolError{Kind: KindPayloadTooLarge, Detail: strconv.FormatInt(length, 10)}
	}
	if resp, err := s.feed(rd, handler, length); resp != nil || err != nil {
		return resp, err
	}
	return handler.End(nil), nil
}

// feed reads exactly length bytes, handing them to the handler in slices
// no larger than the buffer-size limit. A non-nil response is the
// handler's abort; remaining bytes stay unread.
func (s *Server[T]) feed(rd *http1.Reader, handler RequestHandler, length int64) (*Response, error) {
	for remaining := length; remaining > 0; {
		n := min(remaining, int64(s.bufSize))
		buf := make([]byte, n)
		if err := rd.ReadFull(buf); err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		remaining -= n
		if resp := handler.Chunk(buf); resp != nil {
			return resp, nil
		}
	}
	return nil, nil
}

// decodeChunked drives the chunked-transfer state machine: size line,
// data, CRLF, repeated until the zero chunk, which may carry trailers.
func (s *Server[T]) decodeChunked(rd *http1.Reader, handler RequestHandler, headers Header) (*Response, error) {
	for {
		size, err := rd.ReadChunkSize()
		if err != nil {
			if errors.Is(err, http1.ErrChunkFormat) {
				return nil, &ProtocolError{Kind: KindBrokenChunk}
			}
			return nil, fmt.Errorf("read chunk size: %w", err)
		}
		if size == 0 {
			trailers, err := s.readTrailers(rd, headers)
			if err != nil {
				return nil, err
			}
			return handler.End(trailers), nil
		}
		if resp, err := s.feed(rd, handler, size); resp != nil || err != nil {
			return resp, err
		}
		if err := rd.ExpectCRLF(); err != nil {
			if errors.Is(err, http1.ErrChunkFormat) {
				return nil, &ProtocolError{Kind: KindBrokenChunk}
			}
			return nil, fmt.Errorf("read chunk terminator: %w", err)
		}
	}
}

// readTrailers parses the trailing header block when the request declared
// trailer names and filters it to the declared set; names arriving on the
// wire without having been declared are dropped. Returns nil when nothing
// was declared.
func (s *Server[T]) readTrailers(rd *http1.Reader, headers Header) (Header, error) {
	declared := headers.Get("Trailers")
	if declared == "" {
		return nil, nil
	}
	raw, err := rd.ReadHeaders()
	if err != nil {
		var herr *http1.HeaderError
		if errors.As(err, &herr) {
			return nil, &ProtocolError{Kind: KindBadHeader, Detail: herr.Line}
		}
		return nil, fmt.Errorf("read trailers: %w", err)
	}
	filtered := Header{}
	for _, name := range strings.Split(declared, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if v, ok := raw[name]; ok {
			filtered[name] = v
		}
	}
	return filtered, nil
}

func (s *Server[T]) writeResponse(bw *bufio.Writer, resp *Response) error {
	switch body := resp.Body.(type) {
	case FixedBody:
		return http1.WriteFixed(bw, resp.Status, resp.Headers, body.Data)
	case StreamBody:
		return s.streamResponse(bw, resp, noTrailers{next: body.Next})
	case TrailerBody:
		return s.streamResponse(bw, resp, body.Stream)
	default:
		return http1.WriteFixed(bw, resp.Status, resp.Headers, nil)
	}
}

// noTrailers adapts a bare chunk stream to the Streamable contract.
type noTrailers struct {
	next func() ([]byte, bool)
}

func (n noTrailers) Next() ([]byte, bool) { return n.next() }

func (noTrailers) TrailerNames() []string { return nil }

func (noTrailers) Trailers() []Trailer { return nil }

func (s *Server[T]) streamResponse(bw *bufio.Writer, resp *Response, stream Streamable) error {
	names := stream.TrailerNames()
	if err := http1.StartChunked(bw, resp.Status, resp.Headers, names); err != nil {
		return err
	}
	for {
		chunk, ok := stream.Next()
		if !ok {
			break
		}
		if err := http1.WriteChunk(bw, chunk); err != nil {
			return err
		}
	}
	var fields []http1.Field
	if len(names) > 0 {
		// Trailer values exist only once the stream is exhausted.
		for _, t := range stream.Trailers() {
			fields = append(fields, http1.Field{Name: t.Name, Value: t.Value})
		}
	}
	return http1.EndChunked(bw, fields)
}
