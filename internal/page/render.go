package page

import (
	"html/template"
	"io"

	"github.com/photoalbum/photoalbum-server/internal/domain"
)

// Messages shown in the results container.
const (
	MessageLoading      = "Loading results..."
	MessageNoResults    = "No results found."
	MessageSearchFailed = "Error performing search. Please try again."
)

const (
	noLabelsText = "No labels"
	imageAlt     = "Photo result"
)

// ResultsView is the content of the results container: either a single
// message or a list of cards, never both.
type ResultsView struct {
	Message string `json:"message,omitempty"`
	Cards   []Card `json:"cards,omitempty"`
}

// Card is one rendered search result.
type Card struct {
	ImageURL string `json:"image_url"`
	ImageAlt string `json:"image_alt"`
	Chips    []Chip `json:"chips"`
}

// Chip is one label chip. Placeholder chips stand in for a missing label list.
type Chip struct {
	Text        string `json:"text"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// MessageView returns a view holding a single message.
func MessageView(msg string) ResultsView {
	return ResultsView{Message: msg}
}

// RenderResults converts search results into cards in input order.
// A nil or empty slice renders the "no results" message.
func RenderResults(results []domain.PhotoResult) ResultsView {
	if len(results) == 0 {
		return MessageView(MessageNoResults)
	}

	cards := make([]Card, 0, len(results))
	for _, r := range results {
		cards = append(cards, renderCard(r))
	}
	return ResultsView{Cards: cards}
}

func renderCard(r domain.PhotoResult) Card {
	card := Card{ImageURL: r.URL, ImageAlt: imageAlt}

	if len(r.Labels) == 0 {
		card.Chips = []Chip{{Text: noLabelsText, Placeholder: true}}
		return card
	}

	card.Chips = make([]Chip, 0, len(r.Labels))
	for _, l := range r.Labels {
		card.Chips = append(card.Chips, Chip{Text: l})
	}
	return card
}

var resultsTemplate = template.Must(template.New("results").Parse(
	`{{if .Message}}<p>{{.Message}}</p>{{else}}{{range .Cards}}<div class="photo-card">` +
		`<img src="{{.ImageURL}}" alt="{{.ImageAlt}}">` +
		`<div class="photo-labels"><div class="label-chips">` +
		`{{range .Chips}}{{if .Placeholder}}<span>{{.Text}}</span>{{else}}<span class="label-chip">{{.Text}}</span>{{end}}{{end}}` +
		`</div></div></div>{{end}}{{end}}`))

// WriteHTML renders the view as the inner HTML of the results container.
func (v ResultsView) WriteHTML(w io.Writer) error {
	return resultsTemplate.Execute(w, v)
}
