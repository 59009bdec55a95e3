// Package web holds the storefront landing page.
package web

import (
	"embed"
	"html/template"

	"anonshop/api/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexData is rendered by the index template.
type IndexData struct {
	Title      string
	MostBought []models.RankedProduct
}

// Templates parses the embedded page templates. gin renders them by file name, e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
