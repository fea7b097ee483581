package responder

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
)

type staticCreds struct {
	token string
	ok    bool
}

func (c staticCreds) Token() (string, bool) { return c.token, c.ok }

func TestSendPostsFormWithToken(t *testing.T) {
	var gotMessage, gotToken, gotContentType string
	var hasHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotContentType = r.Header.Get("Content-Type")
		_, hasHeader = r.Header["X-Csrftoken"]
		gotToken = r.Header.Get("X-CSRFToken")
		gotMessage = r.PostFormValue("message")
		_, _ = w.Write([]byte(`{"response":"hi"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithCredentials(staticCreds{token: "tok", ok: true}))
	reply, err := c.Send(context.Background(), "a b&c=d\nline")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply.Response != "hi" || reply.Error != "" {
		t.Fatalf("reply = %+v, want response hi", reply)
	}
	if gotMessage != "a b&c=d\nline" {
		t.Fatalf("server saw message %q", gotMessage)
	}
	if !hasHeader || gotToken != "tok" {
		t.Fatalf("token header = %q (present %v), want tok", gotToken, hasHeader)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("content type = %q", gotContentType)
	}
}

func TestSendWithoutTokenSendsEmptyHeader(t *testing.T) {
	var present bool
	var value string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["X-Token"]
		value = r.Header.Get("X-Token")
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithHeader("X-Token"), WithCredentials(staticCreds{}))
	if _, err := c.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !present || value != "" {
		t.Fatalf("header present=%v value=%q, want present and empty", present, value)
	}
}

func TestSendReplyDecoding(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      Reply
		transport bool
		rejected  *RejectedError
	}{
		{name: "response", status: 200, body: `{"response":"hi"}`, want: Reply{Response: "hi"}},
		{name: "error field", status: 200, body: `{"error":"bad"}`, want: Reply{Error: "bad"}},
		{name: "both", status: 200, body: `{"response":"hi","error":"bad"}`, want: Reply{Response: "hi", Error: "bad"}},
		{name: "empty response is falsy", status: 200, body: `{"response":"","error":""}`, want: Reply{}},
		{name: "neither", status: 200, body: `{}`, want: Reply{}},
		{name: "null and false", status: 200, body: `{"response":null,"error":false}`, want: Reply{}},
		{name: "numeric response", status: 200, body: `{"response":42}`, want: Reply{Response: "42"}},
		{name: "not json", status: 200, body: `<html>oops</html>`, transport: true},
		{name: "rejected with error", status: 403, body: `{"error":"denied"}`, rejected: &RejectedError{Status: 403, Description: "denied"}},
		{name: "error page is not json", status: 502, body: `<html>502 Bad Gateway</html>`, transport: true},
		{name: "rejected without error field", status: 500, body: `{"detail":"boom"}`, rejected: &RejectedError{Status: 500}},
		{name: "rejected with empty error", status: 429, body: `{"error":""}`, rejected: &RejectedError{Status: 429}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			reply, err := NewClient(srv.URL).Send(context.Background(), "x")
			switch {
			case tt.transport:
				var te *TransportError
				if !errors.As(err, &te) || !errors.Is(err, ErrInvalidReply) {
					t.Fatalf("err = %v, want TransportError wrapping ErrInvalidReply", err)
				}
			case tt.rejected != nil:
				var re *RejectedError
				if !errors.As(err, &re) {
					t.Fatalf("err = %v, want RejectedError", err)
				}
				if *re != *tt.rejected {
					t.Fatalf("rejected = %+v, want %+v", re, tt.rejected)
				}
			default:
				if err != nil {
					t.Fatalf("Send() error = %v", err)
				}
				if *reply != tt.want {
					t.Fatalf("reply = %+v, want %+v", reply, tt.want)
				}
			}
		})
	}
}

func TestSendTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Send(context.Background(), "x")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if te.Error() == "" {
		t.Fatal("transport error has no description")
	}
}

func TestBootstrapStoresCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "fresh", Path: "/"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	jar, _ := cookiejar.New(nil)
	c := NewClient(srv.URL+"/get_response/", WithHTTPClient(&http.Client{Jar: jar}))
	if err := c.Bootstrap(context.Background(), "/chat/"); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/get_response/", nil)
	cookies := jar.Cookies(req.URL)
	if len(cookies) != 1 || cookies[0].Value != "fresh" {
		t.Fatalf("jar cookies = %v, want csrftoken=fresh", cookies)
	}

	if err := c.Bootstrap(context.Background(), ""); err != nil {
		t.Fatalf("Bootstrap(\"\") error = %v", err)
	}
}

func TestRejectedErrorMessage(t *testing.T) {
	if got := (&RejectedError{Status: 502}).Error(); got != "status 502" {
		t.Fatalf("Error() = %q", got)
	}
	if got := (&RejectedError{Status: 400, Description: "empty"}).Error(); got != "empty" {
		t.Fatalf("Error() = %q", got)
	}
}
