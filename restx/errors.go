package restx

import (
	"errors"
	"fmt"
)

// Route construction errors. Both are programmer errors that prevent the
// server from starting; they are never written to a client.
var ErrRouteExists = errors.New("restx: route already exists")

// ParamMismatchError reports two routes disagreeing on the parameter name
// at the same trie position.
type ParamMismatchError struct {
	Existing string
	New      string
}

func (e *ParamMismatchError) Error() string {
	return fmt.Sprintf("restx: conflicting route parameters :%s and :%s at the same position", e.Existing, e.New)
}

// ErrorKind classifies per-request protocol failures. Each kind maps to a
// canned plain-text response written on the connection before it closes.
type ErrorKind int

const (
	KindNotHTTPConform ErrorKind = iota
	KindUnsupportedVersion
	KindMethodNotImplemented
	KindNotFound
	KindBadHeader
	KindInvalidLength
	KindPayloadTooLarge
	KindBrokenChunk
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotHTTPConform:
		return "not_http_conform"
	case KindUnsupportedVersion:
		return "unsupported_version"
	case KindMethodNotImplemented:
		return "method_not_implemented"
	case KindNotFound:
		return "not_found"
	case KindBadHeader:
		return "bad_header"
	case KindInvalidLength:
		return "invalid_length"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindBrokenChunk:
		return "broken_chunk"
	default:
		return "unknown"
	}
}

// ProtocolError is a request failure the server can still answer. Detail
// carries the offending path, method, version or header line, depending on
// the kind.
type ProtocolError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("restx: %s", e.Kind)
	}
	return fmt.Sprintf("restx: %s (%s)", e.Kind, e.Detail)
}

// Status returns the response status the kind maps to.
func (e *ProtocolError) Status() int {
	switch e.Kind {
	case KindUnsupportedVersion:
		return 505
	case KindMethodNotImplemented:
		return 501
	case KindNotFound:
		return 404
	case KindInvalidLength:
		return 411
	case KindPayloadTooLarge:
		return 413
	default:
		return 400
	}
}

// body returns the canned plain-text response body. The 404 wording is
// part of the wire contract and pinned by tests.
func (e *ProtocolError) body() string {
	switch e.Kind {
	case KindNotHTTPConform:
		return "Not HTTP conform request\r\n"
	case KindUnsupportedVersion:
		return fmt.Sprintf("Version %s not supported\r\n", e.Detail)
	case KindMethodNotImplemented:
		return fmt.Sprintf("Method %s not implemented\r\n", e.Detail)
	case KindNotFound:
		return fmt.Sprintf("Route %s does not exists\r\n", e.Detail)
	case KindBadHeader:
		return "Invalid header data\r\n"
	case KindInvalidLength:
		return "Length invalid\r\n"
	case KindPayloadTooLarge:
		return "Payload too large\r\n"
	case KindBrokenChunk:
		return "Invalid chunk encoding\r\n"
	default:
		return ""
	}
}
