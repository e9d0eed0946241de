// Package web holds the HTML template and static files served by the demo.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// IndexFile is the name of the landing page inside the assets tree.
const IndexFile = "index.html"

// Renderer executes the embedded HTML templates.
type Renderer struct {
	hello *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	hello, err := template.ParseFS(templateFS, "templates/hello.html")
	if err != nil {
		return nil, fmt.Errorf("parse hello template: %w", err)
	}
	return &Renderer{hello: hello}, nil
}

// NewRendererFromTemplate builds a Renderer around an already parsed template.
func NewRendererFromTemplate(hello *template.Template) *Renderer {
	return &Renderer{hello: hello}
}

type greetingData struct {
	Name string
}

// Greeting renders the greeting page for name into w.
// Output is buffered so a failed render never writes a partial page.
func (r *Renderer) Greeting(w io.Writer, name string) error {
	var buf bytes.Buffer
	if err := r.hello.Execute(&buf, greetingData{Name: name}); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Assets returns the static file tree. When dir is empty the embedded copy
// is used, otherwise files are read from dir on disk.
func Assets(dir string) (fs.FS, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("assets dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("assets dir %s is not a directory", dir)
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(assetFS, "assets")
}
