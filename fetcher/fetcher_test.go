package fetcher

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"toad/form"
)

func TestGetSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, "<html><body>hi</body></html>")
	}))
	defer srv.Close()

	resp, err := Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != 200 {
		t.Errorf("status = %d", resp.Status)
	}
	if gotUA != UserAgent() {
		t.Errorf("user agent = %q", gotUA)
	}
	if !strings.Contains(gotAccept, "text/html") {
		t.Errorf("accept = %q", gotAccept)
	}
	if !resp.IsHTML() {
		t.Error("text/html response should be HTML")
	}
	if !strings.Contains(string(resp.Body), "hi") {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestFinalURLFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "arrived")
	})

	resp, err := Get(srv.URL + "/old")
	if err != nil {
		t.Fatal(err)
	}
	if resp.FinalURL != srv.URL+"/new" {
		t.Errorf("final url = %q, want %q", resp.FinalURL, srv.URL+"/new")
	}
}

func TestSubmitPostsEncodedBody(t *testing.T) {
	var gotMethod, gotCT, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL + "/login")
	req := &form.Request{
		Method:      form.POST,
		URL:         u,
		ContentType: "application/x-www-form-urlencoded",
		Body:        []byte("user=ada&pass=p%20w"),
	}
	if _, err := Submit(req); err != nil {
		t.Fatal(err)
	}
	if gotMethod != "POST" {
		t.Errorf("method = %q", gotMethod)
	}
	if gotCT != "application/x-www-form-urlencoded" {
		t.Errorf("content type = %q", gotCT)
	}
	if gotBody != "user=ada&pass=p%20w" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestFetchErrorReturnsNoResponse(t *testing.T) {
	resp, err := Get("http://127.0.0.1:1/unreachable")
	if err == nil {
		t.Fatal("expected a connection error")
	}
	if resp != nil {
		t.Error("failed fetch must not return a response")
	}
}

func TestDataURLPlain(t *testing.T) {
	resp, err := Get("data:text/html,%3Cp%3Ehello%3C%2Fp%3E")
	if err != nil {
		t.Fatal(err)
	}
	if resp.ContentType != "text/html" {
		t.Errorf("content type = %q", resp.ContentType)
	}
	if string(resp.Body) != "<p>hello</p>" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestDataURLBase64(t *testing.T) {
	resp, err := Get("data:text/plain;base64,aGVsbG8=")
	if err != nil {
		t.Fatal(err)
	}
	if string(resp.Body) != "hello" {
		t.Errorf("body = %q", resp.Body)
	}
	if !resp.IsPlainText() {
		t.Error("text/plain response should report plain text")
	}
}

func TestDataURLMalformed(t *testing.T) {
	if _, err := Get("data:no-comma-here"); err == nil {
		t.Error("expected an error for a data url without a comma")
	}
}

func TestDecodeTextLatin1(t *testing.T) {
	r := &Response{
		ContentType: "text/html; charset=iso-8859-1",
		Body:        []byte{'c', 'a', 'f', 0xe9}, // café in latin-1
	}
	if got := r.DecodeText(); got != "café" {
		t.Errorf("decoded = %q", got)
	}
}

func TestMissingContentTypeTreatedAsHTML(t *testing.T) {
	r := &Response{}
	if !r.IsHTML() {
		t.Error("empty content type should enter the HTML pipeline")
	}
}
