package form

import (
	"net/url"
	"testing"

	"toad/dom"
)

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestGetSubmissionEncodesSpaces(t *testing.T) {
	tree := dom.Parse(`<form action="/search" method="get">
		<input type="text" name="q" value="hello world">
		<input type="submit" value="Go">
	</form>`)
	forms := Collect(tree)
	if len(forms) != 1 {
		t.Fatalf("got %d forms", len(forms))
	}
	req, err := forms[0].Submit(mustURL(t, "http://example.com/page"))
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != GET {
		t.Errorf("method = %s", req.Method)
	}
	if got := req.URL.String(); got != "http://example.com/search?q=hello%20world" {
		t.Errorf("url = %q, want q=hello%%20world", got)
	}
	if req.Body != nil {
		t.Error("GET submission must not carry a body")
	}
}

func TestPostSubmission(t *testing.T) {
	tree := dom.Parse(`<form action="https://example.com/login" method="POST">
		<input name="user" value="ada">
		<input type="password" name="pass" value="p w">
	</form>`)
	req, err := Collect(tree)[0].Submit(nil)
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != POST {
		t.Errorf("method = %s", req.Method)
	}
	if req.ContentType != "application/x-www-form-urlencoded" {
		t.Errorf("content type = %q", req.ContentType)
	}
	if got := string(req.Body); got != "user=ada&pass=p%20w" {
		t.Errorf("body = %q", got)
	}
	if req.URL.RawQuery != "" {
		t.Error("POST must not move pairs into the query")
	}
}

func TestSubmitButtonsContributeNoPair(t *testing.T) {
	tree := dom.Parse(`<form action="/a">
		<input name="x" value="1">
		<input type="submit" name="go" value="Go">
		<button name="b">Send</button>
	</form>`)
	req, err := Collect(tree)[0].Submit(mustURL(t, "http://h/"))
	if err != nil {
		t.Fatal(err)
	}
	if got := req.URL.RawQuery; got != "x=1" {
		t.Errorf("query = %q, want x=1", got)
	}
}

func TestCheckboxesOnlyWhenChecked(t *testing.T) {
	tree := dom.Parse(`<form action="/a">
		<input type="checkbox" name="on" checked>
		<input type="checkbox" name="off">
		<input type="radio" name="r" value="1" checked>
	</form>`)
	req, err := Collect(tree)[0].Submit(mustURL(t, "http://h/"))
	if err != nil {
		t.Fatal(err)
	}
	if got := req.URL.RawQuery; got != "on=on&r=1" {
		t.Errorf("query = %q", got)
	}
}

func TestSelectTakesSelectedElseFirst(t *testing.T) {
	tree := dom.Parse(`<form action="/a">
		<select name="s1"><option value="a">A</option><option value="b" selected>B</option></select>
		<select name="s2"><option>first</option><option>second</option></select>
	</form>`)
	req, err := Collect(tree)[0].Submit(mustURL(t, "http://h/"))
	if err != nil {
		t.Fatal(err)
	}
	if got := req.URL.RawQuery; got != "s1=b&s2=first" {
		t.Errorf("query = %q", got)
	}
}

func TestUnnamedControlsSkipped(t *testing.T) {
	tree := dom.Parse(`<form action="/a"><input value="nameless"><input name="k" value="v"></form>`)
	req, err := Collect(tree)[0].Submit(mustURL(t, "http://h/"))
	if err != nil {
		t.Fatal(err)
	}
	if got := req.URL.RawQuery; got != "k=v" {
		t.Errorf("query = %q", got)
	}
}

func TestEmptyActionTargetsPage(t *testing.T) {
	tree := dom.Parse(`<form><input name="q" value="x"></form>`)
	req, err := Collect(tree)[0].Submit(mustURL(t, "http://h/p?old=1"))
	if err != nil {
		t.Fatal(err)
	}
	if got := req.URL.String(); got != "http://h/p?q=x" {
		t.Errorf("url = %q", got)
	}
}

func TestRelativeActionResolves(t *testing.T) {
	tree := dom.Parse(`<form action="sub/post"><input name="a" value="1"></form>`)
	req, err := Collect(tree)[0].Submit(mustURL(t, "http://h/dir/page"))
	if err != nil {
		t.Fatal(err)
	}
	if got := req.URL.String(); got != "http://h/dir/sub/post?a=1" {
		t.Errorf("url = %q", got)
	}
}

func TestEditedValueSubmits(t *testing.T) {
	tree := dom.Parse(`<form action="/a"><input name="q" value=""></form>`)
	f := Collect(tree)[0]
	input := tree.FindFirst("input")
	f.ControlByNode(input).Value = "typed text"
	req, err := f.Submit(mustURL(t, "http://h/"))
	if err != nil {
		t.Fatal(err)
	}
	if got := req.URL.RawQuery; got != "q=typed%20text" {
		t.Errorf("query = %q", got)
	}
}

func TestReservedCharactersEscape(t *testing.T) {
	tree := dom.Parse(`<form action="/a"><input name="q" value="a&b=c?d"></form>`)
	req, err := Collect(tree)[0].Submit(mustURL(t, "http://h/"))
	if err != nil {
		t.Fatal(err)
	}
	if got := req.URL.RawQuery; got != "q=a%26b%3Dc%3Fd" {
		t.Errorf("query = %q", got)
	}
}
