package viewer

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Inventory Viewer</title>
<style>
  body { font-family: sans-serif; margin: 1.5rem; }
  form { display: flex; gap: .5rem; align-items: center; }
  table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
  th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
  th { background: #f0f0f0; }
  .status { color: #666; margin-top: .75rem; font-size: .9rem; }
</style>
</head>
<body>
<h1>Inventory Viewer</h1>
<form method="get" action="/">
  <label for="cat">Category:</label>
  <select name="cat" id="cat">
    <option value="">(All)</option>
{{- range .Categories }}
    <option value="{{ . }}"{{ if eq . $.Selected }} selected{{ end }}>{{ . }}</option>
{{- end }}
  </select>
  <label for="q">Search:</label>
  <input type="text" name="q" id="q" value="{{ .Query }}">
  <button type="submit">Apply</button>
  <a href="/">Reload</a>
</form>
<table>
  <tr><th>ID</th><th>Category</th><th>Name</th><th>Voltage</th><th>Current</th><th>Qty</th><th>Notes</th></tr>
{{- range .Rows }}
  <tr>
    <td>{{ .ID }}</td>
    <td>{{ .Category }}</td>
    <td>{{ .Name }}</td>
    <td>{{ .Voltage }}</td>
    <td>{{ .Current }}</td>
    <td>{{ .Quantity }}</td>
    <td>{{ .Notes }}</td>
  </tr>
{{- end }}
</table>
<p class="status">{{ .Path }} | showing: {{ .Shown }} / {{ .Total }}</p>
</body>
</html>
`
