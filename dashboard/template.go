package dashboard

// indexHTML is the overview page. It refreshes itself every five seconds;
// there is no live push, the page is just a window onto the store file.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="5">
<title>queuectl dashboard</title>
<style>
  body { font-family: ui-monospace, monospace; margin: 2rem; background: #fafafa; color: #222; }
  h1 { font-size: 1.3rem; }
  table { border-collapse: collapse; margin-top: 1rem; width: 100%; }
  th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; font-size: 0.85rem; }
  th { background: #eee; }
  .cards { display: flex; gap: 1rem; flex-wrap: wrap; }
  .card { border: 1px solid #ccc; background: #fff; padding: 0.6rem 1rem; min-width: 7rem; }
  .card .n { font-size: 1.4rem; font-weight: bold; }
  .muted { color: #777; font-size: 0.8rem; }
</style>
</head>
<body>
<h1>queuectl</h1>
<p class="muted">snapshot at {{ .Now }} &middot; success rate {{ printf "%.1f" .Stats.SuccessRate }}% &middot; avg execution {{ .Stats.AvgExecution }}</p>

<div class="cards">
  <div class="card"><div class="n">{{ .Stats.Total }}</div>total</div>
  {{- $byState := .Stats.ByState }}
  {{- range .States }}
  <div class="card"><div class="n">{{ index $byState . }}</div>{{ . }}</div>
  {{- end }}
</div>

<h2>active workers</h2>
{{- if .Stats.ActiveWorkers }}
<table>
<tr><th>worker</th><th>job</th><th>command</th><th>since</th></tr>
{{- range .Stats.ActiveWorkers }}
<tr><td>{{ .WorkerID }}</td><td>{{ .JobID }}</td><td>{{ .Command }}</td><td>{{ .Since.Format "15:04:05" }}</td></tr>
{{- end }}
</table>
{{- else }}
<p class="muted">no jobs running</p>
{{- end }}

<h2>recent jobs</h2>
<table>
<tr><th>id</th><th>state</th><th>priority</th><th>attempts</th><th>command</th><th>last error</th></tr>
{{- range .Jobs }}
<tr><td>{{ .ID }}</td><td>{{ .State }}</td><td>{{ .Priority }}</td><td>{{ .Attempts }}/{{ .MaxRetries }}</td><td>{{ .Command }}</td><td>{{ .LastError }}</td></tr>
{{- end }}
</table>
</body>
</html>
`
