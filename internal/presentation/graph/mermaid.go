package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/probe/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a run's log tree, rooted at
// a node labelled title. It applies semantic styling:
// - Root: ((Circle))
// - Context: [Rectangle]
// - Info: (Rounded)
// - Warning: {{Hexagon}}
// - Error: >Flag]
// Contexts that contain an error and the errors themselves are styled as
// failed, warnings as warned.
func GenerateMermaid(title string, log domain.Log) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString(fmt.Sprintf("    n0((\"%s\"))\n", sanitizeLabel(title)))

	g := &generator{sb: &sb}
	g.walk("n0", log)

	if len(g.failed) > 0 || len(g.warned) > 0 {
		sb.WriteString("\n    %% Outcome Styles\n")
		// Force black text (color:#000) for contrast on both light and dark themes
		sb.WriteString("    classDef failed fill:#fee2e2,stroke:#b91c1c,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef warned fill:#fef9c3,stroke:#ca8a04,stroke-width:2px,color:#000;\n")
		for _, id := range g.failed {
			sb.WriteString(fmt.Sprintf("    class %s failed;\n", id))
		}
		for _, id := range g.warned {
			sb.WriteString(fmt.Sprintf("    class %s warned;\n", id))
		}
	}

	return sb.String()
}

type generator struct {
	sb     *strings.Builder
	next   int
	failed []string
	warned []string
}

// walk emits the children of parent and reports whether any of them failed.
func (g *generator) walk(parentID string, parent domain.Log) bool {
	failed := false
	for _, node := range parent.Children {
		g.next++
		id := fmt.Sprintf("n%d", g.next)

		opener, closer := "[", "]"
		switch node.Kind {
		case domain.LogInfo:
			opener, closer = "(", ")"
		case domain.LogWarn:
			opener, closer = "{{", "}}"
		case domain.LogError:
			opener, closer = ">", "]"
		}
		g.sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, sanitizeLabel(node.Message), closer))
		g.sb.WriteString(fmt.Sprintf("    %s --> %s\n", parentID, id))

		nodeFailed := node.Kind == domain.LogError
		if g.walk(id, node) {
			nodeFailed = true
		}
		switch {
		case nodeFailed:
			g.failed = append(g.failed, id)
			failed = true
		case node.Kind == domain.LogWarn:
			g.warned = append(g.warned, id)
		}
	}
	return failed
}

// sanitizeLabel escapes text for use inside a quoted Mermaid label.
func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
