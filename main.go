// Toad is a terminal web browser: it fetches pages, lays them out on
// the character grid and paints them with ANSI colors.
package main

import (
	"fmt"
	"image"
	neturl "net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"toad/config"
	"toad/dom"
	"toad/fetcher"
	"toad/form"
	"toad/images"
	"toad/layout"
	"toad/logging"
	"toad/page"
	"toad/paint"
	"toad/render"
	"toad/session"
	"toad/theme"
)

func main() {
	url := ""
	printMode := false
	initConfig := false

	for _, arg := range os.Args[1:] {
		switch arg {
		case "-p", "--print":
			printMode = true
		case "--init-config":
			initConfig = true
		case "-h", "--help":
			printUsage()
			return
		default:
			if url == "" {
				url = arg
			}
		}
	}

	// Generate default config and exit
	if initConfig {
		fmt.Print(config.DefaultTOML())
		return
	}

	if printMode {
		if err := runPrint(url); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(url); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Toad - Terminal Web Browser

Usage: toad [options] [url]

Options:
  -p, --print       Print page to stdout (one-shot mode)
  --init-config     Output default config (redirect to the config file)
  -h, --help        Show this help

Examples:
  toad                          Open home page
  toad https://example.com      Open URL
  toad -p https://example.com   Print page to stdout
  toad --init-config > ~/.config/toad/config.toml`)
}

// assets loads subresources through the fetcher.
type assets struct{}

func (assets) Stylesheet(u *neturl.URL) (string, error) {
	resp, err := fetcher.Get(u.String())
	if err != nil {
		return "", err
	}
	if resp.Status >= 400 {
		return "", fmt.Errorf("stylesheet %s: status %d", u, resp.Status)
	}
	return resp.DecodeText(), nil
}

func (assets) Image(u *neturl.URL) (image.Image, error) {
	resp, err := fetcher.Get(u.String())
	if err != nil {
		return nil, err
	}
	if resp.Status >= 400 {
		return nil, fmt.Errorf("image %s: status %d", u, resp.Status)
	}
	return images.Decode(resp.Body)
}

// loadPage fetches a URL and builds a page from the response.
func loadPage(rawURL string, vp layout.Viewport) (*page.Page, error) {
	resp, err := fetcher.Get(rawURL)
	if err != nil {
		return nil, err
	}
	return pageFromResponse(resp, vp)
}

// pageFromResponse turns a fetched response into a built page. HTML
// parses as markup, plain text shows preformatted, anything else is an
// error that leaves the current page up.
func pageFromResponse(resp *fetcher.Response, vp layout.Viewport) (*page.Page, error) {
	if resp.Status >= 400 {
		return nil, fmt.Errorf("server returned status %d", resp.Status)
	}
	base, err := neturl.Parse(resp.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parsing final url: %w", err)
	}
	switch {
	case resp.IsHTML():
		return page.Build(resp.DecodeText(), base, vp, assets{}), nil
	case resp.IsPlainText():
		src := "<pre>" + escapeText(resp.DecodeText()) + "</pre>"
		return page.Build(src, base, vp, nil), nil
	}
	return nil, fmt.Errorf("unsupported content type %q", resp.ContentType)
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	return strings.ReplaceAll(s, "<", "&lt;")
}

const homeURL = "about:home"

const homeHTML = `<!DOCTYPE html>
<html>
<head><title>toad</title></head>
<body>
<h1>toad</h1>
<p style="text-align: center">a terminal web browser</p>
<hr>
<p>Press <b>o</b> to open a URL, <b>Tab</b> to cycle links and form
fields, <b>Enter</b> to follow or activate them.</p>
<ul>
<li><b>j</b>/<b>k</b> scroll, <b>d</b>/<b>u</b> half page, <b>g</b>/<b>G</b> top/bottom</li>
<li><b>b</b>/<b>f</b> back and forward, <b>r</b> reload</li>
<li><b>z</b> toggle theme, <b>I</b> toggle images, <b>q</b> quit</li>
</ul>
<h2>Places to start</h2>
<ul>
<li><a href="https://example.com">example.com</a> - test page</li>
<li><a href="https://text.npr.org">NPR Text</a> - text-only news</li>
<li><a href="https://lite.cnn.com">CNN Lite</a> - lightweight news</li>
<li><a href="https://html.duckduckgo.com/html/">DuckDuckGo</a> - HTML search</li>
<li><a href="https://en.wikipedia.org">Wikipedia</a> - the free encyclopedia</li>
</ul>
</body>
</html>`

func homePage(vp layout.Viewport) *page.Page {
	base, _ := neturl.Parse(homeURL)
	return page.Build(homeHTML, base, vp, nil)
}

func runPrint(url string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	fetcher.Configure(fetcher.Options{
		UserAgent:      cfg.Fetcher.UserAgent,
		TimeoutSeconds: cfg.Fetcher.TimeoutSeconds,
	})

	width := cfg.Rendering.DefaultWidth
	if w, _, werr := render.TerminalSize(); werr == nil {
		width = w
	}
	vp := layout.Viewport{Cols: width, Rows: 1 << 14}

	var pg *page.Page
	if url == "" {
		pg = homePage(vp)
	} else {
		pg, err = loadPage(url, vp)
		if err != nil {
			return err
		}
	}

	height := pg.Height()
	if height < 1 {
		height = 1
	}
	canvas := render.NewCanvas(width, height)
	paint.New(canvas, theme.Light).Paint(pg, 0, dom.NoNode)
	fmt.Print(canvas.PlainText())
	return nil
}

func run(url string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Setup(cfg.Logging.Path, cfg.Logging.Debug)
	defer logging.Sync()

	fetcher.Configure(fetcher.Options{
		UserAgent:      cfg.Fetcher.UserAgent,
		TimeoutSeconds: cfg.Fetcher.TimeoutSeconds,
	})

	th := theme.ByName(cfg.Display.Theme)
	if th == nil {
		th = theme.Light
	}

	width, height, err := render.TerminalSize()
	if err != nil {
		return fmt.Errorf("detecting terminal: %w", err)
	}

	term, err := render.NewTerminal(os.Stdin)
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	render.EnterAltScreen(os.Stdout)
	if err := term.EnterRawMode(); err != nil {
		render.ExitAltScreen(os.Stdout)
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer func() {
		term.RestoreMode()
		render.ExitAltScreen(os.Stdout)
	}()

	// The last row is the status bar; the page gets the rest.
	pageVP := func() layout.Viewport {
		return layout.Viewport{Cols: width, Rows: height - 1}
	}

	nav := &session.Navigator{Load: func(rawURL string) (*page.Page, error) {
		if rawURL == homeURL {
			return homePage(pageVP()), nil
		}
		return loadPage(rawURL, pageVP())
	}}
	if cfg.Session.RestoreSession {
		if h, err := session.Load(); err == nil && h != nil {
			nav.History = *h
		}
	}

	// Initial page: the URL argument wins, then a restored session,
	// then the home page. Only this first load is fatal; later load
	// errors keep the current page up.
	startURL := url
	restoredScroll := 0
	if startURL == "" {
		if nav.History.Current != nil && nav.History.Current.URL != "" {
			startURL = nav.History.Current.URL
			restoredScroll = nav.History.Current.Scroll
			nav.History.Current = nil // Go re-creates the entry
		} else {
			startURL = homeURL
		}
	}
	pg, err := nav.Go(startURL)
	if err != nil {
		return err
	}
	nav.History.Current.Scroll = restoredScroll

	canvas := render.NewCanvas(width, height)
	painter := paint.New(canvas, th)
	painter.ShowImages = cfg.Display.ImagesEnabled

	scroll := restoredScroll
	items := paint.Interactables(pg)
	focusIdx := -1
	statusErr := ""

	// Bottom-bar entry modes.
	urlMode := false
	urlInput := ""
	textMode := false
	var textControl *form.Control
	textLabel := ""
	textInput := ""

	focusNode := func() dom.NodeID {
		if focusIdx >= 0 && focusIdx < len(items) {
			return items[focusIdx].Node
		}
		return dom.NoNode
	}

	maxScroll := func() int {
		m := pg.Height() - (height - 1)
		if m < 0 {
			m = 0
		}
		return m
	}

	clampScroll := func() {
		if m := maxScroll(); scroll > m {
			scroll = m
		}
		if scroll < 0 {
			scroll = 0
		}
	}

	// setPage installs a freshly navigated page.
	setPage := func(p *page.Page) {
		pg = p
		scroll = nav.History.Current.Scroll
		clampScroll()
		items = paint.Interactables(pg)
		focusIdx = -1
		statusErr = ""
	}

	relayout := func() {
		pg.Relayout(pageVP())
		items = paint.Interactables(pg)
		clampScroll()
	}

	drawStatusBar := func() {
		barY := height - 1
		barStyle := theme.StyleFgBg(th.Foreground, th.UI)
		canvas.FillRect(0, barY, width, 1, barStyle)

		switch {
		case urlMode:
			canvas.WriteStringMax(0, barY, " open: "+urlInput+"█", width, barStyle)
			return
		case textMode:
			canvas.WriteStringMax(0, barY, " "+textLabel+": "+textInput+"█", width, barStyle)
			return
		}

		if statusErr != "" {
			errStyle := theme.StyleFgBg(th.Error, th.UI)
			canvas.WriteStringMax(0, barY, " "+statusErr, width-8, errStyle)
		} else {
			left := " " + pg.Title
			if cfg.Display.ShowUrl && nav.History.Current != nil {
				left += "  " + nav.History.Current.URL
			}
			canvas.WriteStringMax(0, barY, left, width-8, barStyle)
		}

		if cfg.Display.ShowScrollPercentage && pg.Height() > height-1 {
			pct := 100
			if m := maxScroll(); m > 0 {
				pct = scroll * 100 / m
			}
			s := fmt.Sprintf("%d%% ", pct)
			canvas.WriteString(width-len(s), barY, s, barStyle)
		}
	}

	drawScrollbar := func() {
		track := height - 1
		docH := pg.Height()
		if docH <= track || track < 1 {
			return
		}
		thumb := track * track / docH
		if thumb < 1 {
			thumb = 1
		}
		pos := 0
		if m := maxScroll(); m > 0 {
			pos = scroll * (track - thumb) / m
		}
		st := render.Style{Fg: th.UI.Render()}
		for y := 0; y < track; y++ {
			ch := '│'
			if y >= pos && y < pos+thumb {
				ch = '█'
			}
			canvas.Set(width-1, y, ch, st)
		}
	}

	redraw := func() {
		painter.Paint(pg, scroll, focusNode())
		drawScrollbar()
		drawStatusBar()
		canvas.RenderTo(os.Stdout)
	}

	// navigate runs a history move and reports failures in the status
	// bar, leaving the current page untouched.
	navigate := func(fn func() (*page.Page, error)) {
		if nav.History.Current != nil {
			nav.History.Current.Scroll = scroll
		}
		p, err := fn()
		if err != nil {
			statusErr = err.Error()
			logging.L().Warn("navigation failed", zap.Error(err))
			return
		}
		setPage(p)
	}

	// scrollToFocus keeps the focused item on screen.
	scrollToFocus := func() {
		if focusIdx < 0 || focusIdx >= len(items) {
			return
		}
		row := items[focusIdx].Row
		if row < scroll {
			scroll = row
		}
		if row >= scroll+height-1 {
			scroll = row - (height - 2)
		}
		clampScroll()
	}

	// submitForm performs the submission and navigates to the result.
	submitForm := func(f *form.Form) {
		req, err := f.Submit(pg.URL)
		if err != nil {
			statusErr = err.Error()
			return
		}
		navigate(func() (*page.Page, error) {
			resp, err := fetcher.Submit(req)
			if err != nil {
				return nil, err
			}
			p, err := pageFromResponse(resp, pageVP())
			if err != nil {
				return nil, err
			}
			if nav.History.Current != nil {
				nav.History.Back = append(nav.History.Back, *nav.History.Current)
			}
			nav.History.Current = &session.Entry{URL: resp.FinalURL, Page: p}
			nav.History.Forward = nil
			return p, nil
		})
	}

	activate := func() {
		if focusIdx < 0 || focusIdx >= len(items) {
			return
		}
		it := items[focusIdx]
		switch it.Kind {
		case paint.KindLink:
			target, err := pg.Resolve(it.Href)
			if err != nil {
				statusErr = err.Error()
				return
			}
			navigate(func() (*page.Page, error) { return nav.Go(target) })
		case paint.KindInput:
			_, ctl := pg.FormFor(it.Node)
			if ctl == nil {
				return
			}
			textMode = true
			textControl = ctl
			textLabel = ctl.Name
			if textLabel == "" {
				textLabel = "input"
			}
			textInput = ctl.Value
		case paint.KindCheckbox:
			if _, ctl := pg.FormFor(it.Node); ctl != nil {
				ctl.Checked = !ctl.Checked
			}
		case paint.KindSelect:
			if _, ctl := pg.FormFor(it.Node); ctl != nil {
				ctl.Value = nextOption(pg.Tree, it.Node, ctl.Value)
			}
		case paint.KindSubmit:
			if f, _ := pg.FormFor(it.Node); f != nil {
				submitForm(f)
			}
		}
	}

	saveSession := func() {
		if !cfg.Session.RestoreSession {
			return
		}
		if nav.History.Current != nil {
			nav.History.Current.Scroll = scroll
		}
		if err := session.Save(&nav.History); err != nil {
			logging.L().Warn("saving session", zap.Error(err))
		}
	}

	redraw()

	// Resizes apply between reads, on the loop's own goroutine; raw
	// mode's read timeout wakes the loop even when no key arrives.
	resizeCh := make(chan os.Signal, 1)
	signal.Notify(resizeCh, syscall.SIGWINCH)
	applyResize := func() {
		w, h, err := render.TerminalSize()
		if err != nil || (w == width && h == height) {
			return
		}
		width, height = w, h
		show := painter.ShowImages
		canvas = render.NewCanvas(width, height)
		painter = paint.New(canvas, th)
		painter.ShowImages = show
		relayout()
		redraw()
	}

	kb := cfg.Keybindings
	buf := make([]byte, 8)
	for {
		n, _ := os.Stdin.Read(buf)
		select {
		case <-resizeCh:
			applyResize()
		default:
		}
		if n == 0 {
			continue
		}
		seq := string(buf[:n])
		c := buf[0]

		// URL entry mode
		if urlMode {
			switch {
			case c == 27: // Escape
				urlMode = false
				urlInput = ""
			case c == '\r' || c == '\n':
				urlMode = false
				target := strings.TrimSpace(urlInput)
				urlInput = ""
				if target != "" {
					if !strings.Contains(target, "://") &&
						!strings.HasPrefix(target, "about:") &&
						!strings.HasPrefix(target, "data:") {
						target = "https://" + target
					}
					navigate(func() (*page.Page, error) { return nav.Go(target) })
				}
			case c == 127 || c == 8: // Backspace
				if len(urlInput) > 0 {
					urlInput = urlInput[:len(urlInput)-1]
				}
			case c >= 32 && c < 127:
				urlInput += seq
			}
			redraw()
			continue
		}

		// Form text entry mode
		if textMode {
			switch {
			case c == 27:
				textMode = false
				textControl = nil
				textInput = ""
			case c == '\r' || c == '\n':
				if textControl != nil {
					textControl.Value = textInput
				}
				textMode = false
				textControl = nil
				textInput = ""
			case c == 127 || c == 8:
				if len(textInput) > 0 {
					textInput = textInput[:len(textInput)-1]
				}
			case c >= 32 && c < 127:
				textInput += seq
			}
			redraw()
			continue
		}

		// Normal mode
		switch {
		case config.MatchSingle(c, kb.Quit):
			saveSession()
			return nil

		case config.MatchSingle(c, kb.ScrollDown) || seq == "\x1b[B":
			scroll++
			clampScroll()

		case config.MatchSingle(c, kb.ScrollUp) || seq == "\x1b[A":
			scroll--
			clampScroll()

		case config.MatchSingle(c, kb.HalfPageDown):
			scroll += (height - 1) / 2
			clampScroll()

		case config.MatchSingle(c, kb.HalfPageUp):
			scroll -= (height - 1) / 2
			clampScroll()

		case config.MatchSingle(c, kb.GoTop):
			scroll = 0

		case config.MatchSingle(c, kb.GoBottom):
			scroll = maxScroll()

		case config.MatchSequence(seq, kb.NextLink):
			if len(items) > 0 {
				focusIdx = (focusIdx + 1) % len(items)
				scrollToFocus()
			}

		case config.MatchSequence(seq, kb.PrevLink):
			if len(items) > 0 {
				if focusIdx <= 0 {
					focusIdx = len(items) - 1
				} else {
					focusIdx--
				}
				scrollToFocus()
			}

		case config.MatchSequence(seq, kb.Activate) || c == '\r' || c == '\n':
			activate()

		case config.MatchSingle(c, kb.OpenUrl):
			urlMode = true
			urlInput = ""

		case config.MatchSingle(c, kb.Back):
			navigate(nav.Back)

		case config.MatchSingle(c, kb.Forward):
			navigate(nav.Forward)

		case config.MatchSingle(c, kb.Refresh):
			navigate(nav.Reload)

		case config.MatchSingle(c, kb.Home):
			navigate(func() (*page.Page, error) { return nav.Go(homeURL) })

		case config.MatchSingle(c, kb.ToggleTheme):
			th = theme.Toggle(th)
			painter.Theme = th

		case config.MatchSingle(c, kb.ToggleImages):
			painter.ShowImages = !painter.ShowImages

		case c == 27:
			focusIdx = -1
			statusErr = ""

		default:
			continue
		}
		redraw()
	}
}

// nextOption cycles a select control to the option after current,
// wrapping at the end.
func nextOption(t *dom.Tree, id dom.NodeID, current string) string {
	var values []string
	t.Walk(id, func(oid dom.NodeID) bool {
		o := t.Node(oid)
		if o.Type == dom.ElementNode && o.Tag == "option" {
			v, ok := o.Attr("value")
			if !ok {
				v = strings.TrimSpace(t.TextContent(oid))
			}
			values = append(values, v)
		}
		return true
	})
	if len(values) == 0 {
		return current
	}
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
