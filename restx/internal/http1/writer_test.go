package http1

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestWriteFixed(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := WriteFixed(bw, 200, nil, []byte("hello")); err != nil {
		t.Fatalf("WriteFixed: %v", err)
	}
	want := "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"
	if got := buf.String(); got != want {
		t.Fatalf("wire = %q, want %q", got, want)
	}
}

func TestWriteFixed_EmptyBody(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := WriteFixed(bw, 204, nil, nil); err != nil {
		t.Fatalf("WriteFixed: %v", err)
	}
	want := "HTTP/1.1 204 No Content\r\nContent-Length: 0\r\n\r\n"
	if got := buf.String(); got != want {
		t.Fatalf("wire = %q, want %q", got, want)
	}
}

func TestWriteFixed_ExtraHeader(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := WriteFixed(bw, 200, map[string]string{"Foo": "bar"}, []byte("x")); err != nil {
		t.Fatalf("WriteFixed: %v", err)
	}
	want := "HTTP/1.1 200 OK\r\nFoo: bar\r\nContent-Length: 1\r\n\r\nx"
	if got := buf.String(); got != want {
		t.Fatalf("wire = %q, want %q", got, want)
	}
}

func TestWriteFixed_ComputesContentLength(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	err := WriteFixed(bw, 200, map[string]string{"Content-Length": "99"}, []byte("hi"))
	if err != nil {
		t.Fatalf("WriteFixed: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "Content-Length: 2\r\n") {
		t.Fatalf("computed length missing: %q", got)
	}
	if strings.Contains(got, "99") {
		t.Fatalf("caller length not dropped: %q", got)
	}
}

func TestWriteFixed_SanitizesHeaderValue(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	err := WriteFixed(bw, 200, map[string]string{"Foo": "a\r\nInjected: x"}, nil)
	if err != nil {
		t.Fatalf("WriteFixed: %v", err)
	}
	if got := buf.String(); strings.Contains(got, "\r\nInjected") {
		t.Fatalf("header value not sanitized: %q", got)
	}
}

func TestStartChunked(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := StartChunked(bw, 200, nil, nil); err != nil {
		t.Fatalf("StartChunked: %v", err)
	}
	want := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n"
	if got := buf.String(); got != want {
		t.Fatalf("wire = %q, want %q", got, want)
	}
}

func TestStartChunked_Trailers(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := StartChunked(bw, 200, nil, []string{"foo", "bar"}); err != nil {
		t.Fatalf("StartChunked: %v", err)
	}
	want := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\nTrailers: foo,bar\r\n\r\n"
	if got := buf.String(); got != want {
		t.Fatalf("wire = %q, want %q", got, want)
	}
}

func TestWriteChunk_SkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := WriteChunk(bw, nil); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty chunk wrote %q", buf.String())
	}
}

func TestEndChunked_Trailers(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := EndChunked(bw, []Field{{Name: "foo", Value: "bar"}}); err != nil {
		t.Fatalf("EndChunked: %v", err)
	}
	want := "0\r\nfoo: bar\r\n\r\n"
	if got := buf.String(); got != want {
		t.Fatalf("wire = %q, want %q", got, want)
	}
}

// TestChunkRoundTrip serializes two chunks and de-chunks them with the
// reader primitives: the concatenation must come back intact, terminated
// by the zero chunk.
func TestChunkRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	for _, c := range []string{"Hello", "World!"} {
		if err := WriteChunk(bw, []byte(c)); err != nil {
			t.Fatalf("WriteChunk: %v", err)
		}
	}
	if err := EndChunked(bw, nil); err != nil {
		t.Fatalf("EndChunked: %v", err)
	}

	r := NewReader(bufio.NewReader(&buf))
	var got bytes.Buffer
	for {
		size, err := r.ReadChunkSize()
		if err != nil {
			t.Fatalf("ReadChunkSize: %v", err)
		}
		if size == 0 {
			break
		}
		p := make([]byte, size)
		if err := r.ReadFull(p); err != nil {
			t.Fatalf("ReadFull: %v", err)
		}
		got.Write(p)
		if err := r.ExpectCRLF(); err != nil {
			t.Fatalf("ExpectCRLF: %v", err)
		}
	}
	if got.String() != "HelloWorld!" {
		t.Fatalf("de-chunked = %q, want %q", got.String(), "HelloWorld!")
	}
}

func TestStatusText(t *testing.T) {
	if got := StatusText(200); got != "OK" {
		t.Fatalf("200 = %q", got)
	}
	if got := StatusText(505); got != "HTTP Version Not Supported" {
		t.Fatalf("505 = %q", got)
	}
	if got := StatusText(299); got != "" {
		t.Fatalf("299 = %q, want empty", got)
	}
}
