// Package templates holds the HTML components of the profiler UI.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/profiler/internal/report"
)

// ReportFrameHeight is the fixed height of the inline report, in pixels.
const ReportFrameHeight = 1000

const (
	pageTitle = "Data Profiler"
	idleInfo  = "Upload your data from the left sidebar to generate a profiling report."
)

// PageData is everything the main page shows.
type PageData struct {
	// Upload state; FileName is empty when the session holds no upload.
	FileName   string
	FileSizeMB float64
	Sheets     []string

	// Current run options.
	Sheet   string
	Minimal bool
	Theme   report.Theme

	// ReportID is set once a report has been rendered.
	ReportID string

	Error *Alert
}

// Alert is a user-facing error shown above the report panel.
type Alert struct {
	Message string
	Action  string
	Code    string
}

// HasUpload reports whether the sidebar should show run options.
func (d PageData) HasUpload() bool { return d.FileName != "" }

// ReportURL is the iframe source for the current report.
func (d PageData) ReportURL() string { return "/report/" + url.PathEscape(d.ReportID) }

// DownloadURL serves the current report as an attachment.
func (d PageData) DownloadURL() string { return d.ReportURL() + "/download" }

type writer struct {
	w   io.Writer
	err error
}

func (h *writer) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *writer) text(s string) { h.raw(templ.EscapeString(s)) }

func (h *writer) rawf(format string, args ...any) { h.raw(fmt.Sprintf(format, args...)) }

func (h *writer) child(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

func component(fn func(ctx context.Context, h *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{w: w}
		fn(ctx, h)
		return h.err
	})
}

// Page is the full application page: sidebar plus main panel.
func Page(d PageData) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>` + pageTitle + `</title><style>` + pageCSS + `</style></head><body>`)
		h.child(ctx, Sidebar(d))
		h.raw(`<main>`)
		h.raw(`<h1>` + pageTitle + `</h1>`)
		if d.Error != nil {
			h.child(ctx, ErrorAlert(d.Error.Message, d.Error.Action, d.Error.Code))
		}
		switch {
		case d.ReportID != "":
			h.child(ctx, ReportPanel(d))
		case d.Error == nil:
			h.raw(`<p class="info">` + idleInfo + `</p>`)
		}
		h.raw(`</main>`)
		h.raw(`<script>` + pageJS + `</script></body></html>`)
	})
}

// Sidebar holds the upload form and, once a file is uploaded, the run
// options. Option changes re-run the report through GET /.
func Sidebar(d PageData) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<aside>`)
		h.raw(`<form id="upload-form" method="post" action="/upload" enctype="multipart/form-data">`)
		h.raw(`<label for="file">Upload a CSV or Excel file</label>`)
		h.raw(`<input id="file" type="file" name="file" accept=".csv,.xlsx" required>`)
		if d.Minimal {
			h.raw(`<input type="hidden" name="minimal" value="on">`)
		}
		h.rawf(`<input type="hidden" name="theme" value="%s">`, templ.EscapeString(string(d.Theme)))
		h.raw(`<button type="submit">Upload</button></form>`)

		if !d.HasUpload() {
			h.raw(`</aside>`)
			return
		}

		h.raw(`<div class="file-info">`)
		h.text(d.FileName)
		h.rawf(` <span class="muted">(%.2f MB)</span></div>`, d.FileSizeMB)

		h.raw(`<form id="options-form" method="get" action="/">`)
		h.raw(`<label class="check"><input type="checkbox" name="minimal" value="on"`)
		if d.Minimal {
			h.raw(` checked`)
		}
		h.raw(`> Generate minimal report?</label>`)

		h.raw(`<fieldset><legend>Theme</legend>`)
		for _, t := range report.Themes {
			h.rawf(`<label class="check"><input type="radio" name="theme" value="%s"`, templ.EscapeString(string(t)))
			if t == d.Theme {
				h.raw(` checked`)
			}
			h.raw(`> `)
			h.text(t.Label())
			h.raw(`</label>`)
		}
		h.raw(`</fieldset>`)

		if len(d.Sheets) > 1 {
			h.raw(`<label for="sheet">Select sheet</label><select id="sheet" name="sheet">`)
			for _, name := range d.Sheets {
				h.raw(`<option value="`)
				h.text(name)
				h.raw(`"`)
				if name == d.Sheet {
					h.raw(` selected`)
				}
				h.raw(`>`)
				h.text(name)
				h.raw(`</option>`)
			}
			h.raw(`</select>`)
		}
		h.raw(`<button type="submit">Generate report</button></form>`)
		h.raw(`</aside>`)
	})
}

// ReportPanel shows the rendered report inline with a download link.
func ReportPanel(d PageData) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<section class="report">`)
		h.raw(`<a class="download" href="`)
		h.text(d.DownloadURL())
		h.raw(`" download="` + report.DownloadName + `">Download full report (HTML)</a>`)
		h.rawf(`<iframe title="Profiling report" src="%s" height="%d" width="100%%" scrolling="yes"></iframe>`,
			templ.EscapeString(d.ReportURL()), ReportFrameHeight)
		h.raw(`</section>`)
	})
}

// ErrorAlert renders a user-facing error with its suggested action and code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<span class="code">`)
			h.text(code)
			h.raw(`</span>`)
		}
		h.raw(`</div>`)
	})
}

// ErrorPage is a minimal standalone page for errors outside the main flow,
// such as an expired report link opened directly.
func ErrorPage(message, action, code string) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<title>` + pageTitle + `</title><style>` + pageCSS + `</style></head><body><main>`)
		h.child(ctx, ErrorAlert(message, action, code))
		h.raw(`<p><a href="/">Back to ` + pageTitle + `</a></p></main></body></html>`)
	})
}

const pageCSS = `
*{box-sizing:border-box}
body{margin:0;display:flex;min-height:100vh;font-family:system-ui,-apple-system,"Segoe UI",sans-serif;color:#262730;background:#fff}
aside{width:300px;flex-shrink:0;padding:1.5rem 1rem;background:#f0f2f6;display:flex;flex-direction:column;gap:1rem}
aside form{display:flex;flex-direction:column;gap:.6rem}
aside label{font-size:.9rem}
aside fieldset{border:none;padding:0;margin:0;display:flex;flex-direction:column;gap:.3rem}
aside legend{font-size:.9rem;margin-bottom:.3rem}
label.check{display:flex;align-items:center;gap:.4rem}
button{padding:.45rem .8rem;border:1px solid #d0d3da;border-radius:.4rem;background:#fff;cursor:pointer}
button:hover{border-color:#ff4b4b;color:#ff4b4b}
select{padding:.35rem}
.file-info{font-size:.85rem;word-break:break-all}
.muted{color:#808495}
main{flex:1;padding:2rem 3rem;min-width:0}
h1{margin-top:0}
.info{padding:1rem;border-radius:.5rem;background:#e8f0fe;color:#1c4f9c}
.alert{padding:1rem;border-radius:.5rem;background:#fdecea;color:#8a1c1c;margin-bottom:1rem}
.alert p{margin:.4rem 0 0}
.alert .code{display:inline-block;margin-top:.4rem;font-size:.75rem;font-family:monospace;opacity:.8}
.report iframe{border:1px solid #e6e9ef;border-radius:.5rem;margin-top:.75rem}
.download{display:inline-block}
#spinner{display:none;align-items:center;gap:.6rem;margin:1rem 0}
#spinner.active{display:flex}
#spinner::before{content:"";width:1rem;height:1rem;border:2px solid #d0d3da;border-top-color:#ff4b4b;border-radius:50%;animation:spin 1s linear infinite}
@keyframes spin{to{transform:rotate(360deg)}}
`

// pageJS shows the spinner while a run is in flight and submits option
// changes immediately.
const pageJS = `
(function(){
  var main=document.querySelector("main");
  var s=document.createElement("div");
  s.id="spinner";s.textContent="Generating profiling report...";
  main.insertBefore(s,main.children[1]||null);
  function busy(){s.classList.add("active");}
  document.querySelectorAll("form").forEach(function(f){f.addEventListener("submit",busy);});
  var opts=document.getElementById("options-form");
  if(opts){opts.addEventListener("change",function(){busy();opts.submit();});}
})();
`
