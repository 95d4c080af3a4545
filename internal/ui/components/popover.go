package components

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Popover is a light-dismiss overlay anchored at a position. Unlike
// widget.PopUp it reports when it closes, whichever way that happened.
type Popover struct {
	widget.BaseWidget

	Content fyne.CanvasObject

	canvas   fyne.Canvas
	anchor   fyne.Position
	shown    bool
	onClosed func()
}

var (
	_ fyne.Tappable          = (*Popover)(nil)
	_ fyne.SecondaryTappable = (*Popover)(nil)
)

func NewPopover(content fyne.CanvasObject, c fyne.Canvas) *Popover {
	p := &Popover{Content: content, canvas: c}
	p.ExtendBaseWidget(p)
	return p
}

// SetOnClosed registers fn to run each time the popover goes away.
func (p *Popover) SetOnClosed(fn func()) { p.onClosed = fn }

// ShowAtPosition opens the popover with its top-left corner at pos,
// clamped to the canvas.
func (p *Popover) ShowAtPosition(pos fyne.Position) {
	if p.canvas == nil {
		return
	}
	p.anchor = pos
	if !p.shown {
		p.canvas.Overlays().Add(p)
		p.shown = true
	}
	p.Resize(p.canvas.Size())
	p.BaseWidget.Show()
	p.Refresh()
}

// ShowAtRelativePosition opens the popover at rel from the top-left of to.
func (p *Popover) ShowAtRelativePosition(rel fyne.Position, to fyne.CanvasObject) {
	if p.canvas == nil {
		return
	}
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(to)
	p.ShowAtPosition(origin.Add(rel))
}

func (p *Popover) Hide() {
	if !p.shown {
		return
	}
	p.shown = false
	p.canvas.Overlays().Remove(p)
	p.BaseWidget.Hide()
	if p.onClosed != nil {
		p.onClosed()
	}
}

func (p *Popover) IsShown() bool { return p.shown }

// Tapped dismisses the popover when the tap lands outside its content.
func (p *Popover) Tapped(e *fyne.PointEvent) {
	if p.contains(e.Position) {
		return
	}
	p.Hide()
}

func (p *Popover) TappedSecondary(e *fyne.PointEvent) {
	if p.contains(e.Position) {
		return
	}
	p.Hide()
}

func (p *Popover) contains(pos fyne.Position) bool {
	origin := p.contentPosition()
	size := p.contentSize()
	return pos.X >= origin.X && pos.Y >= origin.Y &&
		pos.X <= origin.X+size.Width && pos.Y <= origin.Y+size.Height
}

func (p *Popover) contentSize() fyne.Size {
	pad := theme.Padding()
	return p.Content.MinSize().Add(fyne.NewSquareSize(pad * 2))
}

func (p *Popover) contentPosition() fyne.Position {
	size := p.contentSize()
	bounds := p.Size()
	pos := p.anchor
	if pos.X+size.Width > bounds.Width {
		pos.X = bounds.Width - size.Width
	}
	if pos.Y+size.Height > bounds.Height {
		pos.Y = bounds.Height - size.Height
	}
	if pos.X < 0 {
		pos.X = 0
	}
	if pos.Y < 0 {
		pos.Y = 0
	}
	return pos
}

func (p *Popover) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(theme.Color(theme.ColorNameMenuBackground))
	bg.StrokeColor = theme.Color(theme.ColorNameSeparator)
	bg.StrokeWidth = 1
	bg.CornerRadius = theme.InputRadiusSize()
	panel := container.NewStack(bg, container.NewPadded(p.Content))

	shade := canvas.NewRectangle(color.Transparent)
	return &popoverRenderer{p: p, shade: shade, bg: bg, panel: panel}
}

type popoverRenderer struct {
	p     *Popover
	shade *canvas.Rectangle
	bg    *canvas.Rectangle
	panel *fyne.Container
}

func (r *popoverRenderer) Layout(size fyne.Size) {
	r.shade.Resize(size)
	r.panel.Move(r.p.contentPosition())
	r.panel.Resize(r.p.contentSize())
}

func (r *popoverRenderer) MinSize() fyne.Size { return r.p.contentSize() }

func (r *popoverRenderer) Refresh() {
	r.bg.FillColor = theme.Color(theme.ColorNameMenuBackground)
	r.bg.StrokeColor = theme.Color(theme.ColorNameSeparator)
	r.bg.Refresh()
	r.Layout(r.p.Size())
	r.panel.Refresh()
}

func (r *popoverRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.shade, r.panel}
}

func (r *popoverRenderer) Destroy() {}
