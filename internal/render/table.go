package render

import (
	"bytes"
	"html/template"
	"log"
	"strconv"

	"MetalBoard/internal/model"
	"MetalBoard/internal/series"
)

// Row is one formatted table line. Empty strings stand for missing values.
type Row struct {
	Date   string
	Open   string
	High   string
	Low    string
	Close  string
	Trend  model.Trend
	Source string
}

var tableTmpl = template.Must(template.New("table").Parse(`<tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close</th><th>Source</th></tr>
{{- range .}}
<tr><td>{{.Date}}</td><td>{{.Open}}</td><td>{{.High}}</td><td>{{.Low}}</td><td class="{{.Trend}}">{{.Close}}</td><td>{{.Source}}</td></tr>
{{- end}}
`))

var unavailableTmpl = template.Must(template.New("unavailable").Parse(`<tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close</th><th>Source</th></tr>
<tr><td colspan="6" class="unavailable">{{.}}</td></tr>
`))

// FormatPrice renders a price in its shortest exact decimal form, or "" for nil.
func FormatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Rows formats a newest-first window, tagging each close against the next row.
func Rows(records []model.PriceRecord) []Row {
	trends := series.Trends(records)
	out := make([]Row, len(records))
	for i, r := range records {
		out[i] = Row{
			Date:   r.Date,
			Open:   FormatPrice(r.Open),
			High:   FormatPrice(r.High),
			Low:    FormatPrice(r.Low),
			Close:  FormatPrice(r.Close),
			Trend:  trends[i],
			Source: r.Source,
		}
	}
	return out
}

// Table renders the Date/Open/High/Low/Close/Source grid for a newest-first window.
func Table(records []model.PriceRecord) template.HTML {
	var b bytes.Buffer
	if err := tableTmpl.Execute(&b, Rows(records)); err != nil {
		log.Printf("[ERROR] render table: %v", err)
		return Unavailable()
	}
	return template.HTML(b.String())
}

// Unavailable renders the header with a single placeholder row.
func Unavailable() template.HTML {
	var b bytes.Buffer
	if err := unavailableTmpl.Execute(&b, "Unavailable"); err != nil {
		return template.HTML("")
	}
	return template.HTML(b.String())
}
