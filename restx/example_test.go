package restx_test

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/embworks/restx/restx"
)

type app struct {
	greeting string
}

func Example() {
	srv, err := restx.New("127.0.0.1:0", 0, &app{greeting: "Hello"})
	if err != nil {
		fmt.Println(err)
		return
	}
	err = srv.Post("/greeting/:name", restx.Collect(func(req *restx.Request, ctx *app, body []byte) *restx.Response {
		return restx.FixedString(200, nil,
			fmt.Sprintf("%s %s, thanks for %d bytes", ctx.greeting, req.Params["name"], len(body)))
	}))
	if err != nil {
		fmt.Println(err)
		return
	}
	h := restx.Spawn(srv)
	defer func() {
		h.Stop()
		_ = h.Wait()
	}()

	c, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		fmt.Println(err)
		return
	}
	defer c.Close()
	fmt.Fprint(c, "POST /greeting/Bob HTTP/1.1\r\nContent-Length: 9\r\n\r\nSome data")
	_ = c.(*net.TCPConn).CloseWrite()
	raw, _ := io.ReadAll(c)
	_, body, _ := strings.Cut(string(raw), "\r\n\r\n")
	fmt.Println(body)
	// Output:
	// Hello Bob, thanks for 9 bytes
}
