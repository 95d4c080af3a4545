package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

const (
	starFilled = "★"
	starEmpty  = "☆"
)

// RatingWidget is a row of stars. Tapping the current rating again clears it.
type RatingWidget struct {
	widget.BaseWidget

	rating    int
	stars     []*widget.Button
	box       *fyne.Container
	OnChanged func(rating int)
}

func NewRatingWidget(rating int) *RatingWidget {
	r := &RatingWidget{box: container.NewHBox()}
	for i := 1; i <= types.MaxRating; i++ {
		value := i
		btn := widget.NewButton(starEmpty, func() { r.tap(value) })
		btn.Importance = widget.LowImportance
		r.stars = append(r.stars, btn)
		r.box.Add(btn)
	}
	r.ExtendBaseWidget(r)
	r.SetRating(rating)
	return r
}

func (r *RatingWidget) Rating() int { return r.rating }

func (r *RatingWidget) SetRating(rating int) {
	if rating < 0 {
		rating = 0
	}
	if rating > types.MaxRating {
		rating = types.MaxRating
	}
	r.rating = rating
	for i, btn := range r.stars {
		if i < rating {
			btn.SetText(starFilled)
		} else {
			btn.SetText(starEmpty)
		}
	}
}

func (r *RatingWidget) tap(value int) {
	if value == r.rating {
		value = 0
	}
	r.SetRating(value)
	if r.OnChanged != nil {
		r.OnChanged(value)
	}
}

func (r *RatingWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(r.box)
}
