package web

import (
	"io/fs"
	"testing"
)

func TestTemplatesFS(t *testing.T) {
	for _, name := range []string{"layouts/base.html", "pages/index.html", "partials/nav.html"} {
		if _, err := fs.Stat(TemplatesFS(), name); err != nil {
			t.Errorf("Stat(%q): %v", name, err)
		}
	}
}

func TestStaticFS(t *testing.T) {
	if _, err := fs.Stat(StaticFS(), "css/oblog.css"); err != nil {
		t.Errorf("Stat(css/oblog.css): %v", err)
	}
}
