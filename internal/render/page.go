package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"MetalBoard/internal/display"
)

// PageData is what the page template needs: the surface regions and a title.
type PageData struct {
	Title       string
	Regions     map[string]display.Region
	GeneratedAt time.Time
}

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"region": func(regions map[string]display.Region, name string) template.HTML {
		r, ok := regions[name]
		if !ok {
			return ""
		}
		if r.HTML != "" {
			return r.HTML
		}
		return template.HTML(template.HTMLEscapeString(r.Text))
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Last updated: <span id="last-updated">{{region .Regions "last-updated"}}</span></p>
<p>Next update: <span id="next-updated">{{region .Regions "next-updated"}}</span></p>
<h2>Gold 24K</h2>
<table id="gold24-table">{{region .Regions "gold24-table"}}</table>
<h2>Gold 22K</h2>
<table id="gold22-table">{{region .Regions "gold22-table"}}</table>
<h2>Silver</h2>
<table id="silver-table">{{region .Regions "silver-table"}}</table>
<h2>Copper</h2>
<table id="copper-table">{{region .Regions "copper-table"}}</table>
<p id="updated">{{region .Regions "updated"}}</p>
<footer>Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</footer>
</body>
</html>
`))

// Page renders the full board page.
func Page(data PageData) ([]byte, error) {
	if data.Title == "" {
		data.Title = "Metal Prices"
	}
	var b bytes.Buffer
	if err := pageTmpl.Execute(&b, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return b.Bytes(), nil
}
