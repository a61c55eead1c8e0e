package restx

import "strings"

// Header holds request header fields with case-insensitive names. Keys are
// stored lower-case; parsing keeps the last value for a repeated name.
type Header map[string]string

func (h Header) Get(name string) string {
	if h == nil {
		return ""
	}
	return h[strings.ToLower(name)]
}

func (h Header) Has(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h[strings.ToLower(name)]
	return ok
}

func (h Header) Set(name, value string) {
	h[strings.ToLower(name)] = value
}

// Request is the immutable view of a routed request. It is built once per
// connection, after routing and header parsing, and is owned by the
// handler for the request's lifetime.
type Request struct {
	// Params holds the values bound to :name route segments.
	Params map[string]string
	// Query is the raw query string without the leading '?'. HasQuery
	// distinguishes an absent query from an empty one.
	Query    string
	HasQuery bool
	Headers  Header
}
