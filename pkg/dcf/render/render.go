package render

import (
	"fmt"
	"io"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/columns"
)

// Renderer renders valued baskets to an output writer.
type Renderer interface {
	Render(w io.Writer, reports []basket.Report, opts RenderOptions) error
}

type RenderOptions struct {
	Columns     []string
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	Format      columns.Format
}

// ForFormat returns the renderer registered under name.
func ForFormat(name string) (Renderer, error) {
	switch name {
	case "", "table":
		return NewTableRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "tickers":
		return NewTickersRenderer(), nil
	case "detail":
		return NewDetailRenderer(), nil
	}
	return nil, fmt.Errorf("unknown format %q (want table, detail, json or tickers)", name)
}
