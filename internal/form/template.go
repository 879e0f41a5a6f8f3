package form

import "html/template"

// pageData feeds the form template.
type pageData struct {
	Status      string
	StatusClass string // "ok" or "err"
	Ticker      string
	Start       string
	End         string
	Manual      string
	Answer      string
	Reveal      bool
	UseAudio    bool
	Jobs        []jobRow
}

type jobRow struct {
	When    string
	Label   string
	Status  string
	Output  string
	Elapsed string
}

var pageTmpl = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Mystery Chart Generator</title>
<style>
  body { background:#121212; color:#eee; font-family:sans-serif; max-width:700px; margin:30px auto; }
  h1 { color:#00FF88; font-size:22px; text-align:center; }
  fieldset { border:1px solid #333; margin-bottom:16px; padding:12px; }
  legend { color:#00FF88; }
  label { display:block; margin-top:8px; }
  input[type=text], textarea { width:100%; background:#1e1e1e; color:#eee; border:1px solid #444; padding:6px; }
  textarea { height:140px; font-family:monospace; }
  button { width:100%; padding:14px; background:#00FF88; color:#000; font-weight:bold; border:0; cursor:pointer; }
  .status.ok { color:#00FF88; }
  .status.err { color:#ff5555; }
  table { width:100%; font-size:12px; border-collapse:collapse; }
  td, th { border-bottom:1px solid #333; padding:4px; text-align:left; }
</style>
</head>
<body>
<h1>MYSTERY CHART GENERATOR</h1>
{{if .Status}}<p class="status {{.StatusClass}}">{{.Status}}</p>{{end}}
<form method="POST" action="/render">
  <fieldset>
    <legend>Download Data</legend>
    <label>Ticker Symbol <input type="text" name="ticker" value="{{.Ticker}}" placeholder="BTC-USD"></label>
    <label>Start Date <input type="text" name="start" value="{{.Start}}"></label>
    <label>End Date <input type="text" name="end" value="{{.End}}"></label>
  </fieldset>
  <fieldset>
    <legend>Manual Paste (used instead of the ticker when filled)</legend>
    <label>Rows, one "YYYY-MM-DD price" per line
      <textarea name="manual" placeholder="2021-01-01 29000">{{.Manual}}</textarea>
    </label>
  </fieldset>
  <fieldset>
    <legend>Settings</legend>
    <label>Correct Answer (e.g. BITCOIN) <input type="text" name="answer" value="{{.Answer}}"></label>
    <label><input type="checkbox" name="reveal" {{if .Reveal}}checked{{end}}> Reveal answer at end of video</label>
    <label><input type="checkbox" name="audio" {{if .UseAudio}}checked{{end}}> Use background audio</label>
  </fieldset>
  <button type="submit">GENERATE VIDEO</button>
</form>
{{if .Jobs}}
<h3>Recent renders</h3>
<table>
<tr><th>When</th><th>Label</th><th>Status</th><th>Output</th><th>Took</th></tr>
{{range .Jobs}}<tr><td>{{.When}}</td><td>{{.Label}}</td><td>{{.Status}}</td><td>{{.Output}}</td><td>{{.Elapsed}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))
