package server

import "net/http"

// indexHTML is a minimal shell that fetches and renders the session's
// figure. The interactive UI proper lives outside this server.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Spectron3000</title>
<script src="https://cdn.plot.ly/plotly-2.27.0.min.js"></script>
</head>
<body>
<h3>Spectron3000</h3>
<div id="main-graph"></div>
<script>
fetch("/api/figure")
  .then(function (resp) {
    if (!resp.ok) { throw new Error("no spectrum loaded"); }
    return resp.json();
  })
  .then(function (fig) { Plotly.newPlot("main-graph", fig.data, fig.layout); })
  .catch(function (err) {
    document.getElementById("main-graph").textContent = err.message;
  });
</script>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}
