package restx

// Body is the closed set of response body representations.
type Body interface {
	isBody()
}

// FixedBody is a fully materialized body sent with a Content-Length.
type FixedBody struct {
	Data []byte
}

// StreamBody produces chunks lazily. Next returns the next chunk and true,
// or false once the sequence is exhausted. The sequence is finite and not
// restartable; it is consumed exactly once during serialization.
type StreamBody struct {
	Next func() ([]byte, bool)
}

// TrailerBody streams chunks and appends trailer fields after the final
// chunk.
type TrailerBody struct {
	Stream Streamable
}

func (FixedBody) isBody()   {}
func (StreamBody) isBody()  {}
func (TrailerBody) isBody() {}

// Streamable yields body chunks and, once the sequence is exhausted, the
// trailer values promised by TrailerNames. TrailerNames is read before the
// body starts (to announce them in a Trailers header); Trailers is read
// only after Next has returned false.
type Streamable interface {
	Next() ([]byte, bool)
	TrailerNames() []string
	Trailers() []Trailer
}

// Trailer is one response trailer field.
type Trailer struct {
	Name  string
	Value string
}

// Response is produced by a handler at the end of an exchange and
// serialized exactly once. Headers are optional extra fields emitted
// verbatim; a nil Body serializes as an empty fixed body.
type Response struct {
	Status  int
	Headers map[string]string
	Body    Body
}

// FixedBytes builds a fixed response from raw bytes.
func FixedBytes(status int, headers map[string]string, data []byte) *Response {
	return &Response{Status: status, Headers: headers, Body: FixedBody{Data: data}}
}

// FixedString builds a fixed response from a string body.
func FixedString(status int, headers map[string]string, body string) *Response {
	return FixedBytes(status, headers, []byte(body))
}
