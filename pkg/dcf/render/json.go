package render

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/summary"
	"github.com/komsit37/dcf/pkg/dcf/types"
	"github.com/komsit37/dcf/pkg/dcf/valuation"
)

// jsonModel is the output shape for JSONRenderer.
type jsonModel struct {
	Name     string        `json:"name"`
	Columns  []string      `json:"columns"`
	Outcomes []jsonOutcome `json:"outcomes"`
}

type jsonOutcome struct {
	Ticker    string                 `json:"ticker"`
	Name      string                 `json:"name"`
	Valuation *types.ValuationResult `json:"valuation,omitempty"`
	Error     *jsonError             `json:"error,omitempty"`
	Price     *float64               `json:"price,omitempty"`
	Upside    *float64               `json:"upside_pct,omitempty"`
	Verdict   basket.Verdict         `json:"verdict,omitempty"`
	Summary   summary.Summary        `json:"summary"`
	Fields    map[string]any         `json:"fields,omitempty"`
}

type jsonError struct {
	Kind    string `json:"kind"`
	State   string `json:"state,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, reports []basket.Report, opts RenderOptions) error {
	out := make([]jsonModel, 0, len(reports))
	for _, rep := range reports {
		m := jsonModel{Name: rep.Name, Columns: rep.Columns, Outcomes: make([]jsonOutcome, 0, len(rep.Outcomes))}
		for _, o := range rep.Outcomes {
			m.Outcomes = append(m.Outcomes, toJSON(o, opts))
		}
		out = append(out, m)
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func toJSON(o basket.Outcome, opts RenderOptions) jsonOutcome {
	j := jsonOutcome{
		Ticker:  o.Company.Ticker,
		Name:    o.Company.Name(),
		Upside:  o.Upside,
		Verdict: o.Verdict,
		Summary: o.Summary,
		Fields:  o.Company.Fields,
	}
	if opts.Format.Millions {
		j.Summary = o.Summary.InMillions()
	}
	if o.Quote != nil {
		p := o.Quote.Price
		j.Price = &p
	}
	if o.OK() {
		res := o.Result
		if opts.Format.Millions {
			res = res.InMillions()
		}
		j.Valuation = &res
		return j
	}
	j.Error = &jsonError{Message: o.Err.Error()}
	var verr *valuation.Error
	if errors.As(o.Err, &verr) {
		j.Error.Kind = verr.Kind.String()
		j.Error.State = verr.State.String()
		j.Error.Field = verr.Field
		j.Error.Message = verr.Msg
	}
	return j
}
