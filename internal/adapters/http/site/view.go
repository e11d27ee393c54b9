package site

import (
	"strconv"

	"github.com/okian/heartcheck/internal/adapters/notify"
	"github.com/okian/heartcheck/internal/domain/form"
	"github.com/okian/heartcheck/internal/domain/prediction"
)

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type fieldView struct {
	Name       string
	Label      string
	Hint       string
	Value      string
	Error      string
	Continuous bool
	Options    []optionView
}

type pageView struct {
	Fields        []fieldView
	Presets       []string
	Prediction    string
	Outcome       prediction.Outcome
	Notifications []notify.Message
}

// Healthy and Unhealthy select the result panel in the template.
func (p pageView) Healthy() bool   { return p.Outcome == prediction.OutcomeHealthy }
func (p pageView) Unhealthy() bool { return p.Outcome == prediction.OutcomeUnhealthy }

func newPage(h *form.Holder) pageView {
	rec := h.Record()
	errs := h.Errors()
	page := pageView{
		Fields:  make([]fieldView, 0, form.FeatureCount),
		Presets: form.PresetNames(),
	}
	for _, f := range form.Order {
		fv := fieldView{
			Name:       string(f),
			Label:      f.Label(),
			Hint:       f.Hint(),
			Value:      rec.Value(f),
			Error:      errs[f],
			Continuous: f.IsContinuous(),
		}
		for _, o := range f.Options() {
			fv.Options = append(fv.Options, optionView{
				Value:    strconv.Itoa(o.Value),
				Label:    o.Label,
				Selected: rec.Choice(f) == o.Value,
			})
		}
		page.Fields = append(page.Fields, fv)
	}
	return page
}

func (p *pageView) show(resp prediction.Response) {
	p.Prediction = resp.Prediction
	p.Outcome = resp.Outcome()
}
