package report

import (
	"fmt"
	"html/template"
	"io"

	"scriptgraph/internal/graph"
)

// Colors per node group, shared with the Mermaid class definitions.
var groupColors = map[string]struct{ Background, Border, Highlight string }{
	"script":  {Background: "#ff6b6b", Border: "#ff5252", Highlight: "#ff8a80"},
	"mission": {Background: "#4ecdc4", Border: "#26a69a", Highlight: "#80cbc4"},
	"unknown": {Background: "#ffa726", Border: "#ff9800", Highlight: "#ffb74d"},
}

var groupShapes = map[string]string{
	"script":  "dot",
	"mission": "square",
	"unknown": "triangle",
}

type htmlData struct {
	Title  string
	View   graph.View
	Colors map[string]struct{ Background, Border, Highlight string }
	Shapes map[string]string
}

var pageTemplate = template.Must(template.New("graph").Parse(pageHTML))

// WriteHTML renders an interactive vis-network page for g.
func WriteHTML(w io.Writer, g *graph.Graph) error {
	data := htmlData{
		Title:  "Galaxy Trucker Script Graph",
		View:   g.View(),
		Colors: groupColors,
		Shapes: groupShapes,
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

// SaveHTML writes the rendered page to path.
func SaveHTML(path string, g *graph.Graph) error {
	return writeFile(path, func(w io.Writer) error { return WriteHTML(w, g) })
}

const pageHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <script type="text/javascript" src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #1a1a1a; color: white; }
        #network { width: 100%; height: 800px; border: 1px solid #444; background-color: #2a2a2a; }
        .stats { display: flex; gap: 20px; margin-bottom: 20px; }
        .stat { background-color: #444; padding: 10px; border-radius: 5px; text-align: center; flex: 1; }
        .stat-number { font-size: 24px; font-weight: bold; color: #ffa500; }
        .legend { position: absolute; top: 20px; right: 20px; background-color: rgba(51, 51, 51, 0.9); padding: 15px; border-radius: 5px; border: 1px solid #666; }
        .legend-item { display: flex; align-items: center; margin-bottom: 5px; }
        .legend-color { width: 15px; height: 15px; border-radius: 50%; margin-right: 10px; }
        .controls { margin-bottom: 20px; padding: 15px; background-color: #333; border-radius: 5px; }
        button { background-color: #555; color: white; border: none; padding: 8px 16px; border-radius: 4px; margin-right: 10px; cursor: pointer; }
        button:hover { background-color: #666; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>

    <div class="stats">
        <div class="stat"><div class="stat-number" id="total-scripts">{{.View.Metadata.TotalScripts}}</div><div>Scripts</div></div>
        <div class="stat"><div class="stat-number" id="total-missions">{{.View.Metadata.TotalMissions}}</div><div>Missions</div></div>
        <div class="stat"><div class="stat-number" id="total-dependencies">{{.View.Metadata.TotalDependencies}}</div><div>Dependencies</div></div>
    </div>

    <div class="controls">
        <button onclick="fitNetwork()">Fit</button>
        <button onclick="togglePhysics()">Toggle physics</button>
        <button onclick="exportPNG()">Export PNG</button>
    </div>

    <div id="network"></div>

    <div class="legend">
        <h4>Legend</h4>
        {{range $group, $c := .Colors}}<div class="legend-item"><div class="legend-color" style="background-color: {{$c.Background}};"></div>{{$group}}</div>
        {{end}}
    </div>

    <script type="text/javascript">
        var colors = {{.Colors}};
        var shapes = {{.Shapes}};
        var rawNodes = {{.View.Nodes}};
        var rawEdges = {{.View.Edges}};

        var degree = {};
        rawEdges.forEach(function (e) {
            degree[e.from] = (degree[e.from] || 0) + 1;
            degree[e.to] = (degree[e.to] || 0) + 1;
        });

        rawNodes.forEach(function (node) {
            var c = colors[node.group] || colors.unknown;
            node.color = { background: c.Background, border: c.Border, highlight: { background: c.Highlight, border: c.Border } };
            node.shape = shapes[node.group] || shapes.unknown;
            node.size = Math.max(15, Math.min(50, 15 + (degree[node.id] || 0) * 3));
            node.title = "Type: " + node.type + "\nFile: " + node.file;
        });

        var nodes = new vis.DataSet(rawNodes);
        var edges = new vis.DataSet(rawEdges);
        var container = document.getElementById("network");
        var options = {
            physics: {
                enabled: true,
                stabilization: { iterations: 200 },
                barnesHut: { gravitationalConstant: -8000, centralGravity: 0.3, springLength: 150, springConstant: 0.04, damping: 0.09 }
            },
            nodes: { borderWidth: 2, shadow: true, font: { size: 14, color: "#ffffff" } },
            edges: { width: 2, color: { color: "#848484", highlight: "#ffa500" }, arrows: { to: { enabled: true } }, smooth: { type: "continuous" } },
            interaction: { hover: true, tooltipDelay: 200 }
        };
        var network = new vis.Network(container, { nodes: nodes, edges: edges }, options);
        var physicsEnabled = true;

        function fitNetwork() { network.fit(); }
        function togglePhysics() {
            physicsEnabled = !physicsEnabled;
            network.setOptions({ physics: physicsEnabled });
        }
        function exportPNG() {
            var canvas = container.getElementsByTagName("canvas")[0];
            var link = document.createElement("a");
            link.download = "script_graph.png";
            link.href = canvas.toDataURL("image/png");
            link.click();
        }
        network.on("stabilizationIterationsDone", function () { network.fit(); });
    </script>
</body>
</html>
`
