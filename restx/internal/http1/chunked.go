package http1

import (
	"errors"
	"io"
	"strconv"
)

var ErrChunkFormat = errors.New("http1: invalid chunk format")

// ReadChunkSize reads one chunk-size line and parses it as hex (either
// case). A closed stream or a blank line where a size is expected is a
// framing error, as is anything the hex parser rejects; chunk extensions
// are not supported and fail the parse.
func (r *Reader) ReadChunkSize() (int64, error) {
	line, err := r.ReadLine()
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return 0, ErrChunkFormat
	}
	if err != nil {
		return 0, err
	}
	if line == "" {
		return 0, ErrChunkFormat
	}
	n, err := strconv.ParseInt(line, 16, 64)
	if err != nil || n < 0 {
		return 0, ErrChunkFormat
	}
	return n, nil
}

// ExpectCRLF consumes the two-byte boundary that terminates chunk data.
func (r *Reader) ExpectCRLF() error {
	var crlf [2]byte
	if _, err := io.ReadFull(r.br, crlf[:]); err != nil {
		return err
	}
	if crlf[0] != '\r' || crlf[1] != '\n' {
		return ErrChunkFormat
	}
	return nil
}
