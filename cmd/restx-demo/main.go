// Command restx-demo runs a small REST server showing the handler
// flavors: empty and canned fixed responses, streamed and trailered
// chunked responses, a query-driven slow stream and a body-collecting
// POST route. Prometheus metrics are scraped from a sidecar listener.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/embworks/restx/internal/obs"
	"github.com/embworks/restx/restx"
)

type appContext struct {
	greeting string
}

func empty(_ *restx.Request, _ *appContext) *restx.Response {
	return &restx.Response{Status: 204}
}

func bad(_ *restx.Request, _ *appContext) *restx.Response {
	return restx.FixedString(400, nil, "This was bad\r\n")
}

// chunks turns a fixed set of strings into a lazy chunk stream.
func chunks(parts ...string) restx.StreamBody {
	i := 0
	return restx.StreamBody{Next: func() ([]byte, bool) {
		if i >= len(parts) {
			return nil, false
		}
		p := parts[i]
		i++
		return []byte(p), true
	}}
}

func greeting(_ *restx.Request, _ *appContext) *restx.Response {
	return &restx.Response{Status: 200, Body: chunks("Hello\r\n", "World\r\n")}
}

// slow streams its chunks with a delay, so clients see them arrive one by
// one. The chunk count comes from the query string.
func slow(req *restx.Request, _ *appContext) *restx.Response {
	count := 10
	if req.HasQuery {
		n, err := strconv.Atoi(req.Query)
		if err != nil {
			return restx.FixedString(400, nil, "Query should be a number\r\n")
		}
		count = n
	}
	i := 0
	return &restx.Response{Status: 200, Body: restx.StreamBody{Next: func() ([]byte, bool) {
		if i >= count {
			return nil, false
		}
		i++
		time.Sleep(time.Second)
		return fmt.Appendf(nil, "Call number %d\r\n", i), true
	}}}
}

// withTrailers streams two chunks and reports a foo trailer whose value is
// known up front but delivered, per protocol, after the final chunk.
type withTrailers struct {
	count int
	msg   string
}

func (w *withTrailers) Next() ([]byte, bool) {
	w.count++
	switch w.count {
	case 1:
		return []byte("Hello\r\n"), true
	case 2:
		return []byte("Trailers\r\n"), true
	default:
		return nil, false
	}
}

func (w *withTrailers) TrailerNames() []string { return []string{"foo"} }

func (w *withTrailers) Trailers() []restx.Trailer {
	return []restx.Trailer{{Name: "foo", Value: w.msg}}
}

func trailered(_ *restx.Request, _ *appContext) *restx.Response {
	return &restx.Response{Status: 200, Body: restx.TrailerBody{Stream: &withTrailers{msg: "bar"}}}
}

func main() {
	reg := prometheus.NewRegistry()
	srv, err := restx.New(":8080", 2048, &appContext{greeting: "Hello"},
		restx.WithLogger[*appContext](obs.StdLogger{L: log.New(os.Stderr, "restx-demo ", log.LstdFlags), Min: obs.Info}),
		restx.WithMeter[*appContext](obs.NewPromMeter(reg)),
	)
	if err != nil {
		log.Fatal(err)
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		if err := http.ListenAndServe(":9090", mux); err != nil {
			log.Printf("metrics listener: %v", err)
		}
	}()

	for route, fn := range map[string]restx.RouteFunc[*appContext]{
		"/":          restx.Respond(empty),
		"/bad":       restx.Respond(bad),
		"/greeting":  restx.Respond(greeting),
		"/slow":      restx.Respond(slow),
		"/trailered": restx.Respond(trailered),
	} {
		if err := srv.Get(route, fn); err != nil {
			log.Fatal(err)
		}
	}
	err = srv.Post("/greeting/:name", restx.Collect(func(req *restx.Request, ctx *appContext, body []byte) *restx.Response {
		return restx.FixedString(200, map[string]string{"Foo": "bar"},
			fmt.Sprintf("%s %s, thanks for %d bytes and %d headers",
				ctx.greeting, req.Params["name"], len(body), len(req.Headers)))
	}))
	if err != nil {
		log.Fatal(err)
	}

	h := restx.Spawn(srv)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	h.Stop()
	if err := h.Wait(); err != nil {
		log.Fatal(err)
	}
}
