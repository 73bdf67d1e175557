package renderer

import (
	"github.com/unrolled/render"
)

// New returns a JSON-only renderer; indentation is enabled outside production.
func New(pretty bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    pretty,
		UnEscapeHTML:  true,
	})
}
