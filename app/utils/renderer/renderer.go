package renderer

import (
	"html/template"

	"github.com/Rakhulsr/go-foodie/app/utils/format"
	"github.com/unrolled/render"
)

// New builds the renderer used for JSON responses and the payment outcome pages.
func New(templatesDir string, development bool) *render.Render {
	return render.New(render.Options{
		Directory:     templatesDir,
		Layout:        "layout",
		Extensions:    []string{".html"},
		IndentJSON:    development,
		IsDevelopment: development,
		Funcs: []template.FuncMap{
			{
				"money": format.Money,
			},
		},
	})
}
