package restx

// RequestHandler consumes a request body and produces the response. One
// handler serves one request; it is constructed after routing and header
// parsing but before any body bytes are read.
type RequestHandler interface {
	// Chunk receives one slice of body data. Returning a non-nil response
	// aborts body consumption; the response is sent as-is and remaining
	// body bytes stay unread.
	Chunk(chunk []byte) *Response
	// End is called once the body is complete. trailers is non-nil only
	// for chunked requests that declared trailer names via a Trailers
	// header.
	End(trailers Header) *Response
}

// RouteFunc constructs the handler for one request, so it may close over
// req. ctx is the server's shared application context and must be treated
// as read-only.
type RouteFunc[T any] func(req *Request, ctx T) RequestHandler

// Collect buffers the whole request body and invokes fn once at the end.
// Suitable for routes without a body or with bodies small enough to hold
// in memory; streaming consumers implement RequestHandler directly.
func Collect[T any](fn func(req *Request, ctx T, body []byte) *Response) RouteFunc[T] {
	return func(req *Request, ctx T) RequestHandler {
		return &collectHandler[T]{req: req, ctx: ctx, fn: fn}
	}
}

type collectHandler[T any] struct {
	req  *Request
	ctx  T
	fn   func(*Request, T, []byte) *Response
	data []byte
}

func (h *collectHandler[T]) Chunk(chunk []byte) *Response {
	h.data = append(h.data, chunk...)
	return nil
}

func (h *collectHandler[T]) End(Header) *Response {
	return h.fn(h.req, h.ctx, h.data)
}

// Respond answers without looking at the request body; any body chunks
// are discarded. This is the usual adapter for GET and DELETE routes, and
// with a closure returning FixedString it doubles as a canned responder.
func Respond[T any](fn func(req *Request, ctx T) *Response) RouteFunc[T] {
	return func(req *Request, ctx T) RequestHandler {
		return respondHandler[T]{req: req, ctx: ctx, fn: fn}
	}
}

type respondHandler[T any] struct {
	req *Request
	ctx T
	fn  func(*Request, T) *Response
}

func (respondHandler[T]) Chunk([]byte) *Response { return nil }

func (h respondHandler[T]) End(Header) *Response { return h.fn(h.req, h.ctx) }
