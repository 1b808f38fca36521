package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/dcf/pkg/dcf/basket"
)

// tickersRenderer prints the tickers of valued companies in a single
// comma-separated line, in ranked order.
type tickersRenderer struct{}

func NewTickersRenderer() Renderer {
	return tickersRenderer{}
}

func (tickersRenderer) Render(w io.Writer, reports []basket.Report, _ RenderOptions) error {
	tickers := make([]string, 0)
	for _, rep := range reports {
		for _, o := range rep.Outcomes {
			t := strings.TrimSpace(o.Company.Ticker)
			if t == "" || !o.OK() {
				continue
			}
			tickers = append(tickers, t)
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(tickers, ","))
	return err
}
