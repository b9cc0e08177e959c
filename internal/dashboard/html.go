package dashboard

import (
	"fmt"
	"html/template"
	"time"

	"github.com/denhq/den/internal/session"
)

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>den Dashboard</title>
    <meta http-equiv="refresh" content="20">
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background: #1a1a2e;
            color: #eee;
            min-height: 100vh;
            padding: 10px;
        }
        h1 { text-align: center; margin-bottom: 15px; font-size: 1.5em; color: #7b68ee; }
        .container {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(350px, 1fr));
            gap: 10px;
            width: 100%;
        }
        .tile {
            background: #16213e;
            border: 1px solid #0f3460;
            border-radius: 8px;
            padding: 10px;
            text-decoration: none;
            color: inherit;
            display: flex;
            flex-direction: column;
            min-height: 200px;
            max-height: 400px;
            overflow: hidden;
            transition: transform 0.2s, box-shadow 0.2s;
        }
        .tile:hover {
            transform: translateY(-2px);
            box-shadow: 0 4px 20px rgba(123, 104, 238, 0.3);
            border-color: #7b68ee;
        }
        .tile-header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 8px;
            padding-bottom: 8px;
            border-bottom: 1px solid #0f3460;
        }
        .tile-name { font-weight: bold; font-size: 1.1em; color: #7b68ee; }
        .tile-time { font-size: 0.8em; color: #888; }
        .tile-content {
            flex: 1;
            overflow: hidden;
            font-family: "SF Mono", "Monaco", "Inconsolata", "Fira Mono", monospace;
            font-size: 10px;
            line-height: 1.3;
            white-space: pre;
            background: #0a0a15;
            padding: 8px;
            border-radius: 4px;
            color: #aaa;
        }
        .no-containers { text-align: center; padding: 50px; color: #666; font-size: 1.2em; }
        .refresh-indicator { position: fixed; bottom: 10px; right: 10px; font-size: 0.8em; color: #666; }
    </style>
</head>
<body>
    <h1>den Dashboard</h1>
    <div class="container">
    {{- if .Tiles}}
    {{- range .Tiles}}
        <a href="{{.URL}}" class="tile" target="_blank">
            <div class="tile-header">
                <span class="tile-name">{{.Name}}</span>
                <span class="tile-time">{{.TimeAgo}}</span>
            </div>
            <pre class="tile-content">{{.Content}}</pre>
        </a>
    {{- end}}
    {{- else}}
        <div class="no-containers">No den sessions running</div>
    {{- end}}
    </div>
    <div class="refresh-indicator">Auto-refresh: 20s</div>
</body>
</html>
`))

type tile struct {
	Name    string
	URL     string
	TimeAgo string
	Content string
}

type page struct {
	Tiles []tile
}

// sessionURL builds the link target for one tile: the tailnet hostname when a
// DNS suffix is known, the localhost port mapping otherwise.
func sessionURL(s ContainerState, suffix string) string {
	if suffix != "" {
		return fmt.Sprintf("http://%s.%s:%d/", s.Name, suffix, session.TerminalPort)
	}
	if s.TerminalPort > 0 {
		return fmt.Sprintf("http://localhost:%d/", s.TerminalPort)
	}
	return "#"
}

func formatTimeAgo(now, t time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
}
