// Package web embeds the HTML templates and static assets of the browser UI.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the stylesheet and other static assets, rooted at static/.
func StaticFS() fs.FS { return mustSub("static") }

// TemplatesFS returns the page templates, rooted at templates/.
func TemplatesFS() fs.FS { return mustSub("templates") }

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		// Only reachable if the embed directive and dir disagree.
		panic("web: " + err.Error())
	}
	return sub
}
