package deck

import (
	"fmt"
	"strings"
)

// Result is one rendered card.
type Result struct {
	Name   string
	Cost   string
	Output string
}

// ExportDeckText lists the rendered cards in deck order, one per line.
func ExportDeckText(name string, results []Result) string {
	lines := []string{}
	if name != "" {
		lines = append(lines, "# "+name)
	}
	for _, r := range results {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("[%s] %s -> %s", r.Cost, r.Name, r.Output)))
	}
	return strings.Join(lines, "\n") + "\n"
}
