// Package web embeds the page templates and the static assets served to the
// controller and display.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// GetTemplatesFS returns the page templates rooted at templates/
func GetTemplatesFS() fs.FS {
	return mustSub(templatesFS, "templates")
}

// GetStaticFS returns the css and js assets rooted at static/
func GetStaticFS() fs.FS {
	return mustSub(staticFS, "static")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		// dir is a compile-time embed path
		panic(err)
	}
	return sub
}
