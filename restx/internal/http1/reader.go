package http1

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrMalformedRequestLine = errors.New("http1: malformed request line")

// HeaderError reports a header line missing the mandatory ": " separator.
type HeaderError struct {
	Line string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("http1: bad header line %q", e.Line)
}

// RequestLine is the parsed first line of an HTTP/1.x request. Method is
// the raw token from the wire; mapping it to a verb is the caller's job.
type RequestLine struct {
	Method   string
	Path     string
	Query    string
	HasQuery bool
	Version  string
}

// ParseRequestLine splits a request line into exactly three space-separated
// fields and separates path from query at the first '?'.
func ParseRequestLine(line string) (RequestLine, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return RequestLine{}, ErrMalformedRequestLine
	}
	rl := RequestLine{Method: parts[0], Path: parts[1], Version: parts[2]}
	if path, query, ok := strings.Cut(rl.Path, "?"); ok {
		rl.Path = path
		rl.Query = query
		rl.HasQuery = true
	}
	return rl, nil
}

// Reader reads CRLF-delimited protocol elements from a buffered source.
type Reader struct {
	br *bufio.Reader
}

func NewReader(br *bufio.Reader) *Reader { return &Reader{br: br} }

// ReadLine reads up to and including the next LF and returns the line
// without its terminator. io.EOF means the stream ended before this line
// started; an EOF mid-line is io.ErrUnexpectedEOF.
func (r *Reader) ReadLine() (string, error) {
	var sb strings.Builder
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
	}
	return sb.String(), nil
}

// ReadHeaders consumes header lines until an empty line or end-of-stream.
// Names are lower-cased for case-insensitive lookup; a repeated name
// overwrites the earlier value.
func (r *Reader) ReadHeaders() (map[string]string, error) {
	headers := make(map[string]string)
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, &HeaderError{Line: line}
		}
		headers[strings.ToLower(name)] = value
	}
	return headers, nil
}

// ReadFull reads exactly len(p) bytes.
func (r *Reader) ReadFull(p []byte) error {
	_, err := io.ReadFull(r.br, p)
	return err
}
