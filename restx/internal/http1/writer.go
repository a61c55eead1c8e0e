package http1

import (
	"bufio"
	"fmt"
	"strings"
)

// Field is one trailer name/value pair, emitted verbatim.
type Field struct {
	Name  string
	Value string
}

// WriteFixed emits a complete fixed-length response: status line, caller
// headers, a computed Content-Length, blank line and body, then a single
// flush. Nothing else is added to the wire, so callers control the exact
// bytes a client sees. A caller-supplied content-length is dropped in
// favor of the computed one.
func WriteFixed(bw *bufio.Writer, status int, headers map[string]string, body []byte) error {
	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", status, StatusText(status)); err != nil {
		return err
	}
	if err := writeHeaders(bw, headers, "Content-Length"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := bw.Write(body); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// StartChunked emits the status line and header block for a chunked
// response and flushes, so a slow producer cannot delay the header.
// trailerNames, when non-empty, are announced in a Trailers header before
// the body starts.
func StartChunked(bw *bufio.Writer, status int, headers map[string]string, trailerNames []string) error {
	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\nTransfer-Encoding: chunked\r\n", status, StatusText(status)); err != nil {
		return err
	}
	if err := writeHeaders(bw, headers, "Content-Length", "Transfer-Encoding"); err != nil {
		return err
	}
	if len(trailerNames) > 0 {
		if _, err := fmt.Fprintf(bw, "Trailers: %s\r\n", strings.Join(trailerNames, ",")); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteChunk emits one chunk and flushes, since chunks may be produced
// with real-world delay. Empty slices are skipped so a producer yielding
// no data cannot terminate the stream early.
func WriteChunk(bw *bufio.Writer, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(bw, "%x\r\n", len(p)); err != nil {
		return err
	}
	if _, err := bw.Write(p); err != nil {
		return err
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// EndChunked emits the zero chunk, any trailer fields and the final blank
// line.
func EndChunked(bw *bufio.Writer, trailers []Field) error {
	if _, err := bw.WriteString("0\r\n"); err != nil {
		return err
	}
	for _, t := range trailers {
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", t.Name, sanitizeValue(t.Value)); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}
	return bw.Flush()
}

func writeHeaders(bw *bufio.Writer, headers map[string]string, skip ...string) error {
outer:
	for name, value := range headers {
		for _, s := range skip {
			if strings.EqualFold(name, s) {
				continue outer
			}
		}
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", name, sanitizeValue(value)); err != nil {
			return err
		}
	}
	return nil
}

// sanitizeValue strips CR/LF and control characters (except HTAB) so a
// header value cannot break out of its line.
func sanitizeValue(v string) string {
	if !strings.ContainsFunc(v, func(r rune) bool { return r < 0x20 && r != '\t' || r == 0x7f }) {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == 0x7f || c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
