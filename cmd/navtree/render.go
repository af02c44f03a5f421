package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/wikinav/internal/expansion"
	"github.com/dgallion1/wikinav/internal/navtree"
)

var (
	muted = lipgloss.Color("#6B7280")

	dirStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60A5FA"))
	openDirStyle  = dirStyle.Foreground(lipgloss.Color("#10B981"))
	linkStyle     = lipgloss.NewStyle()
	pathStyle     = lipgloss.NewStyle().Foreground(muted).Italic(true)
	markerStyle   = lipgloss.NewStyle().Foreground(muted)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	markerOpen    = "▾"
	markerClosed  = "▸"
	markerLink    = "•"
	indentPerStep = "  "
)

// renderView writes v as an indented outline. The root is always open, so
// its children form the top level. Contents of collapsed directories are
// skipped unless all is set.
func renderView(w io.Writer, v *expansion.ViewNode, all bool) {
	if v == nil {
		return
	}
	if v.Kind == navtree.KindDirectory && v.ID == expansion.RootID {
		for _, c := range v.Children {
			renderNode(w, c, 0, all)
		}
		return
	}
	renderNode(w, v, 0, all)
}

func renderNode(w io.Writer, v *expansion.ViewNode, depth int, all bool) {
	indent := strings.Repeat(indentPerStep, depth)

	if v.Kind == navtree.KindLink {
		title := v.Title
		if title == "" {
			title = v.Path
		}
		fmt.Fprintf(w, "%s%s %s  %s\n", indent, markerStyle.Render(markerLink), linkStyle.Render(title), pathStyle.Render(v.Path))
		return
	}

	marker, style := markerClosed, dirStyle
	if v.Expanded {
		marker, style = markerOpen, openDirStyle
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, markerStyle.Render(marker), style.Render(v.Name))

	if !v.Expanded && !all {
		return
	}
	for _, c := range v.Children {
		renderNode(w, c, depth+1, all)
	}
}
