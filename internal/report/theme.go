package report

type palette struct {
	background string
	surface    string
	text       string
	muted      string
	border     string
	accent     string
	accentRGB  string // "r, g, b" for translucent fills
	negRGB     string
	alert      string
}

var palettes = map[Theme]palette{
	ThemeStandard: {
		background: "#ffffff",
		surface:    "#f7f7f9",
		text:       "#212529",
		muted:      "#6c757d",
		border:     "#dee2e6",
		accent:     "#337ab7",
		accentRGB:  "51, 122, 183",
		negRGB:     "217, 83, 79",
		alert:      "#fcf8e3",
	},
	ThemeDark: {
		background: "#16181d",
		surface:    "#22252c",
		text:       "#e6e6e6",
		muted:      "#9aa0a6",
		border:     "#343842",
		accent:     "#4fc3f7",
		accentRGB:  "79, 195, 247",
		negRGB:     "239, 83, 80",
		alert:      "#3b3420",
	},
	ThemeOrange: {
		background: "#fffaf4",
		surface:    "#fdf0e1",
		text:       "#2d2a26",
		muted:      "#7a6f63",
		border:     "#f1d6b8",
		accent:     "#e67e22",
		accentRGB:  "230, 126, 34",
		negRGB:     "52, 152, 219",
		alert:      "#fde8d0",
	},
}

func paletteFor(t Theme) palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[ThemeStandard]
}

func stylesheet(t Theme) string {
	p := paletteFor(t)
	return `:root{--bg:` + p.background + `;--surface:` + p.surface + `;--text:` + p.text +
		`;--muted:` + p.muted + `;--border:` + p.border + `;--accent:` + p.accent +
		`;--alert:` + p.alert + `;--accent-rgb:` + p.accentRGB + `;--neg-rgb:` + p.negRGB + `}` + baseCSS
}

const baseCSS = `
*{box-sizing:border-box}
body{margin:0;font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,Helvetica,Arial,sans-serif;font-size:14px;line-height:1.5;background:var(--bg);color:var(--text)}
header{padding:16px 24px;border-bottom:3px solid var(--accent)}
header h1{margin:0;font-size:22px}
header .subtitle{color:var(--muted)}
nav{padding:8px 24px;background:var(--surface);border-bottom:1px solid var(--border);position:sticky;top:0}
nav a{color:var(--accent);margin-right:16px;text-decoration:none;font-weight:600}
main{padding:16px 24px}
section{margin-bottom:32px}
h2{font-size:18px;border-bottom:1px solid var(--border);padding-bottom:4px}
h3{font-size:15px;margin:0 0 8px}
table{border-collapse:collapse;margin-bottom:12px}
th,td{padding:4px 10px;border-bottom:1px solid var(--border);text-align:left;vertical-align:top}
td.num{text-align:right;font-variant-numeric:tabular-nums}
.grid{display:flex;flex-wrap:wrap;gap:24px}
.card{background:var(--surface);border:1px solid var(--border);border-radius:6px;padding:12px 16px;margin-bottom:16px}
.badge{display:inline-block;padding:0 8px;border-radius:10px;background:var(--accent);color:var(--bg);font-size:12px;margin-left:8px}
.alerts li{background:var(--alert);margin-bottom:4px;padding:4px 8px;list-style:none;border-left:3px solid var(--accent)}
.alerts{padding:0}
.hist{display:flex;align-items:flex-end;height:80px;gap:2px;min-width:220px}
.hist div{flex:1;background:var(--accent);min-height:1px}
.bar{background:var(--accent);height:10px;display:inline-block}
.corr td{text-align:center;min-width:56px}
.muted{color:var(--muted)}
.scroll{overflow-x:auto}
footer{padding:16px 24px;color:var(--muted);border-top:1px solid var(--border)}
`
