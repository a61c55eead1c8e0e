package restx

import "testing"

func TestCollect(t *testing.T) {
	req := &Request{Headers: Header{"host": "x"}}
	var gotBody string
	var gotCtx int
	h := Collect(func(r *Request, ctx int, body []byte) *Response {
		if r != req {
			t.Error("handler saw a different request")
		}
		gotCtx = ctx
		gotBody = string(body)
		return FixedString(200, nil, "done")
	})(req, 42)

	if resp := h.Chunk([]byte("Hello ")); resp != nil {
		t.Fatalf("chunk aborted: %+v", resp)
	}
	if resp := h.Chunk([]byte("Data")); resp != nil {
		t.Fatalf("chunk aborted: %+v", resp)
	}
	resp := h.End(nil)
	if resp.Status != 200 {
		t.Fatalf("status = %d", resp.Status)
	}
	if gotBody != "Hello Data" {
		t.Fatalf("body = %q", gotBody)
	}
	if gotCtx != 42 {
		t.Fatalf("ctx = %d", gotCtx)
	}
}

func TestCollect_EmptyBody(t *testing.T) {
	h := Collect(func(_ *Request, _ int, body []byte) *Response {
		if len(body) != 0 {
			t.Errorf("body = %q, want empty", body)
		}
		return FixedString(204, nil, "")
	})(&Request{}, 0)
	if resp := h.End(nil); resp.Status != 204 {
		t.Fatalf("status = %d", resp.Status)
	}
}

func TestRespond_DiscardsBody(t *testing.T) {
	called := false
	h := Respond(func(_ *Request, ctx string) *Response {
		called = true
		return FixedString(200, nil, ctx)
	})(&Request{}, "hi")

	if resp := h.Chunk([]byte("ignored")); resp != nil {
		t.Fatalf("chunk aborted: %+v", resp)
	}
	if called {
		t.Fatal("fn ran before End")
	}
	resp := h.End(nil)
	if !called || resp.Status != 200 {
		t.Fatalf("resp = %+v, called = %v", resp, called)
	}
	body, ok := resp.Body.(FixedBody)
	if !ok || string(body.Data) != "hi" {
		t.Fatalf("body = %+v", resp.Body)
	}
}

func TestHeaderCaseInsensitive(t *testing.T) {
	h := Header{}
	h.Set("Content-Type", "text/plain")
	if got := h.Get("content-TYPE"); got != "text/plain" {
		t.Fatalf("Get = %q", got)
	}
	if !h.Has("CONTENT-TYPE") {
		t.Fatal("Has = false")
	}
	if h.Has("missing") {
		t.Fatal("Has(missing) = true")
	}
	var nilHeader Header
	if nilHeader.Get("x") != "" || nilHeader.Has("x") {
		t.Fatal("nil header must behave as empty")
	}
}

func TestProtocolErrorMapping(t *testing.T) {
	tests := []struct {
		kind   ErrorKind
		detail string
		status int
		body   string
	}{
		{KindNotHTTPConform, "", 400, "Not HTTP conform request\r\n"},
		{KindUnsupportedVersion, "HTTP/1.0", 505, "Version HTTP/1.0 not supported\r\n"},
		{KindMethodNotImplemented, "BLUB", 501, "Method BLUB not implemented\r\n"},
		{KindNotFound, "/no_route", 404, "Route /no_route does not exists\r\n"},
		{KindBadHeader, "Host:x", 400, "Invalid header data\r\n"},
		{KindInvalidLength, "abc", 411, "Length invalid\r\n"},
		{KindPayloadTooLarge, "9000", 413, "Payload too large\r\n"},
		{KindBrokenChunk, "", 400, "Invalid chunk encoding\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			e := &ProtocolError{Kind: tt.kind, Detail: tt.detail}
			if got := e.Status(); got != tt.status {
				t.Errorf("status = %d, want %d", got, tt.status)
			}
			if got := e.body(); got != tt.body {
				t.Errorf("body = %q, want %q", got, tt.body)
			}
		})
	}
}
