package css

import "sync"

// uaSource is the built-in default sheet, kept as ordinary CSS so it
// goes through the same parser as everything else. Margins and padding
// are in pixels; one text row is 16px, one column 8px.
const uaSource = `
html, body, div, p, blockquote, pre, hr, form, table, thead, tbody, tr,
header, footer, section, article, nav, aside, main, figure, figcaption,
address, fieldset, dl, dt, center, textarea,
h1, h2, h3, h4, h5, h6, ul, ol, dd {
	display: block;
}

li { display: list-item; }

head, script, style, title, meta, link, base, template, noscript {
	display: none;
}

body {
	margin: 0 8px;
}

p, blockquote, pre, ul, ol, dl, figure, table, form {
	margin: 16px 0;
}

h1, h2, h3, h4, h5, h6 {
	font-weight: bold;
	margin: 16px 0;
}

h1 { text-align: center; }

a {
	text-decoration: underline;
}

b, strong { font-weight: bold; }
i, em, cite, var { font-style: italic; }
u, ins { text-decoration: underline; }

pre, code, kbd, samp { white-space: pre; }

center { text-align: center; }

ul, ol { padding-left: 16px; }

blockquote { padding-left: 16px; }

dd { padding-left: 16px; }

hr {
	border: solid;
	height: 0;
	margin: 16px 0;
}

th { font-weight: bold; }
`

var (
	uaOnce  sync.Once
	uaSheet *Stylesheet
)

// UserAgent returns the built-in stylesheet, parsed once. Callers pass
// it into the cascade explicitly; nothing reads it implicitly.
func UserAgent() *Stylesheet {
	uaOnce.Do(func() {
		uaSheet = ParseStylesheet(uaSource, OriginUserAgent)
	})
	return uaSheet
}
