package session

import (
	"fmt"
	"net/url"
	"testing"

	"toad/layout"
	"toad/page"
)

func testLoader(t *testing.T, fail map[string]bool) Loader {
	t.Helper()
	return func(rawURL string) (*page.Page, error) {
		if fail[rawURL] {
			return nil, fmt.Errorf("connection refused")
		}
		base, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		return page.Build("<p>"+rawURL+"</p>", base, layout.Viewport{Cols: 40, Rows: 20}, nil), nil
	}
}

func TestGoPushesHistory(t *testing.T) {
	n := &Navigator{Load: testLoader(t, nil)}
	if _, err := n.Go("http://a/"); err != nil {
		t.Fatal(err)
	}
	if _, err := n.Go("http://b/"); err != nil {
		t.Fatal(err)
	}
	if n.History.Current.URL != "http://b/" {
		t.Errorf("current = %q", n.History.Current.URL)
	}
	if len(n.History.Back) != 1 || n.History.Back[0].URL != "http://a/" {
		t.Errorf("back = %+v", n.History.Back)
	}
}

func TestFailedLoadKeepsCurrentPage(t *testing.T) {
	n := &Navigator{Load: testLoader(t, map[string]bool{"http://down/": true})}
	if _, err := n.Go("http://a/"); err != nil {
		t.Fatal(err)
	}
	before := n.CurrentPage()
	if _, err := n.Go("http://down/"); err == nil {
		t.Fatal("expected an error")
	}
	if n.CurrentPage() != before {
		t.Error("failed navigation replaced the current page")
	}
	if n.History.Current.URL != "http://a/" {
		t.Errorf("current url = %q", n.History.Current.URL)
	}
	if len(n.History.Back) != 0 {
		t.Errorf("back stack grew on failure: %+v", n.History.Back)
	}
}

func TestBackAndForward(t *testing.T) {
	n := &Navigator{Load: testLoader(t, nil)}
	n.Go("http://a/")
	n.Go("http://b/")

	if _, err := n.Back(); err != nil {
		t.Fatal(err)
	}
	if n.History.Current.URL != "http://a/" {
		t.Errorf("after back: %q", n.History.Current.URL)
	}
	if len(n.History.Forward) != 1 {
		t.Errorf("forward = %+v", n.History.Forward)
	}

	if _, err := n.Forward(); err != nil {
		t.Fatal(err)
	}
	if n.History.Current.URL != "http://b/" {
		t.Errorf("after forward: %q", n.History.Current.URL)
	}
}

func TestGoClearsForwardStack(t *testing.T) {
	n := &Navigator{Load: testLoader(t, nil)}
	n.Go("http://a/")
	n.Go("http://b/")
	n.Back()
	n.Go("http://c/")
	if len(n.History.Forward) != 0 {
		t.Errorf("forward = %+v", n.History.Forward)
	}
}

func TestBackOnEmptyStackErrors(t *testing.T) {
	n := &Navigator{Load: testLoader(t, nil)}
	if _, err := n.Back(); err == nil {
		t.Error("expected an error")
	}
	if _, err := n.Forward(); err == nil {
		t.Error("expected an error")
	}
}

func TestBackReloadsRestoredEntry(t *testing.T) {
	n := &Navigator{Load: testLoader(t, nil)}
	// A restored session has URLs but no built pages.
	n.History.Back = []Entry{{URL: "http://old/", Scroll: 3}}
	n.History.Current = &Entry{URL: "http://now/"}

	p, err := n.Back()
	if err != nil {
		t.Fatal(err)
	}
	if p == nil {
		t.Fatal("no page built")
	}
	if n.History.Current.Scroll != 3 {
		t.Errorf("scroll = %d, want restored 3", n.History.Current.Scroll)
	}
}

func TestReloadKeepsPosition(t *testing.T) {
	n := &Navigator{Load: testLoader(t, nil)}
	n.Go("http://a/")
	n.Go("http://b/")
	if _, err := n.Reload(); err != nil {
		t.Fatal(err)
	}
	if n.History.Current.URL != "http://b/" || len(n.History.Back) != 1 {
		t.Errorf("history disturbed: %+v", n.History)
	}
}
