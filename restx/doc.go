// Package restx is a small, embeddable HTTP/1.1 REST server. It owns the
// TCP byte stream from accept to response flush: request-line and header
// parsing, path routing with :name parameters, fixed and chunked request
// bodies with trailers, and fixed or streamed (chunked, optionally
// trailered) responses, all without net/http.
//
// Routes are registered with a verb, a /-separated pattern and a handler
// constructor, then the server is started; the route table is immutable
// while serving. One request is served per connection: there is no
// keep-alive, TLS, compression or HTTP/2.
//
// Quick start:
//
//	srv, err := restx.New(":8080", 2048, "Hello")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = srv.Get("/greeting/:name", restx.Respond(func(req *restx.Request, greeting string) *restx.Response {
//	    return restx.FixedString(200, nil, greeting+" "+req.Params["name"]+"\r\n")
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(srv.Start())
//
// Start blocks; Spawn runs the accept loop on its own goroutine and
// returns a handle whose Stop wakes a blocked accept with a throwaway
// connection. The third New argument is a shared application context
// handed read-only to every handler constructor.
package restx
