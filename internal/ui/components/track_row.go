package components

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Alexander-D-Karpov/tracklist/internal/tracklist"
	"github.com/Alexander-D-Karpov/tracklist/internal/ui/themes"
	"github.com/Alexander-D-Karpov/tracklist/pkg/types"
)

var (
	_ tracklist.TrackRowView = (*TrackRow)(nil)
	_ tracklist.AlbumRowView = (*AlbumRow)(nil)
)

// rowParts holds what track and album rows have in common.
type rowParts struct {
	owner   fyne.CanvasObject
	actions *MenuActions

	objectID    int64
	number      int
	playing     bool
	menuOpen    bool
	onActivated func()
	menu        *TrackMenu

	background *canvas.Rectangle
	numberText *widget.RichText
	indicator  *widget.Icon
	title      *widget.Label
	duration   *widget.Label
	menuBtn    *widget.Button
}

func (p *rowParts) init(owner fyne.CanvasObject, actions *MenuActions) {
	p.owner = owner
	p.actions = actions
	p.background = canvas.NewRectangle(theme.Color(themes.ColorNameRow))
	p.numberText = widget.NewRichText()
	p.indicator = widget.NewIcon(theme.MediaPlayIcon())
	p.indicator.Hide()
	p.title = widget.NewLabel("")
	p.title.Truncation = fyne.TextTruncateEllipsis
	p.duration = widget.NewLabel("")
	p.menuBtn = widget.NewButtonWithIcon("", theme.MoreVerticalIcon(), p.openMenuFromButton)
	p.menuBtn.Importance = widget.LowImportance
}

func (p *rowParts) SetNumberLabel(label tracklist.NumberLabel) {
	style := widget.RichTextStyleInline
	if label.Queued {
		style.ColorName = themes.ColorNameQueued
		style.TextStyle = fyne.TextStyle{Bold: true}
	}
	p.numberText.Segments = []widget.RichTextSegment{&widget.TextSegment{Text: label.Text, Style: style}}
	p.numberText.Refresh()
}

func (p *rowParts) SetTitleLabel(text string)    { p.title.SetText(text) }
func (p *rowParts) SetDurationLabel(text string) { p.duration.SetText(text) }

func (p *rowParts) SetPlayingIndicator(visible bool) {
	p.playing = visible
	if visible {
		p.indicator.Show()
	} else {
		p.indicator.Hide()
	}
	p.applyClass()
}

func (p *rowParts) SetMenuVisible(visible bool) {
	if visible {
		p.menuBtn.Show()
	} else {
		p.menuBtn.Hide()
	}
}

func (p *rowParts) SetObjectID(id int64)  { p.objectID = id }
func (p *rowParts) ObjectID() int64       { return p.objectID }
func (p *rowParts) SetNumber(n int)       { p.number = n }
func (p *rowParts) Number() int           { return p.number }
func (p *rowParts) OnActivated(fn func()) { p.onActivated = fn }

// Classes returns the style classes currently applied to the row.
func (p *rowParts) Classes() []string {
	base := tracklist.ClassRow
	if p.playing {
		base = tracklist.ClassPlaying
	}
	if p.menuOpen {
		return []string{base, tracklist.ClassMenuSelected}
	}
	return []string{base}
}

func (p *rowParts) applyClass() {
	classes := p.Classes()
	p.background.FillColor = theme.Color(themes.ClassColor(classes[len(classes)-1]))
	p.background.Refresh()
}

func (p *rowParts) activate() {
	if p.onActivated != nil {
		p.onActivated()
	}
}

func (p *rowParts) openMenuFromButton() {
	if m := p.newMenu(); m != nil {
		m.ShowBelow(p.menuBtn)
	}
}

// openMenu shows the row menu at pos, in absolute canvas coordinates.
func (p *rowParts) openMenu(pos fyne.Position) {
	if m := p.newMenu(); m != nil {
		m.ShowAt(pos)
	}
}

func (p *rowParts) newMenu() *TrackMenu {
	c := fyne.CurrentApp().Driver().CanvasForObject(p.owner)
	if c == nil {
		return nil
	}
	p.menu = NewTrackMenu(p.objectID, p.actions, c)
	p.menu.SetOnClosed(func() {
		p.menuOpen = false
		p.applyClass()
	})
	p.menuOpen = true
	p.applyClass()
	return p.menu
}

// Menu returns the last menu opened on this row.
func (p *rowParts) Menu() *TrackMenu { return p.menu }

// trackLine lays out number, indicator and title, with right on the trailing
// edge.
func (p *rowParts) trackLine(right ...fyne.CanvasObject) fyne.CanvasObject {
	left := container.NewHBox(container.NewStack(p.numberText), p.indicator)
	return container.NewBorder(nil, nil, left, container.NewHBox(right...), p.title)
}

// TrackRow is a single track entry of a list.
type TrackRow struct {
	widget.BaseWidget
	rowParts

	loved     bool
	lovedIcon *canvas.Image
}

func NewTrackRow(actions *MenuActions) *TrackRow {
	r := &TrackRow{}
	r.init(r, actions)
	r.lovedIcon = canvas.NewImageFromResource(theme.ConfirmIcon())
	r.lovedIcon.FillMode = canvas.ImageFillContain
	r.lovedIcon.SetMinSize(fyne.NewSquareSize(theme.IconInlineSize()))
	r.SetLoved(false)
	r.ExtendBaseWidget(r)
	return r
}

func (r *TrackRow) SetLoved(loved bool) {
	r.loved = loved
	opacity := tracklist.UnlovedOpacity
	if loved {
		opacity = tracklist.LovedOpacity
	}
	r.lovedIcon.Translucency = 1 - opacity
	r.lovedIcon.Refresh()
}

func (r *TrackRow) Loved() bool { return r.loved }

func (r *TrackRow) Tapped(*fyne.PointEvent) { r.activate() }

func (r *TrackRow) TappedSecondary(e *fyne.PointEvent) { r.openMenu(e.AbsolutePosition) }

func (r *TrackRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(r.background, r.trackLine(r.lovedIcon, r.duration, r.menuBtn)))
}

// AlbumRow is a track entry that opens an album: it carries the album
// header with cover, artist and title above the track line.
type AlbumRow struct {
	widget.BaseWidget
	rowParts

	store     types.MetadataStore
	scale     func() float32
	coverSize float32
	albumID   int64

	cover        *canvas.Image
	coverTooltip string
	artist       *widget.Label
	album        *widget.Label
	header       *fyne.Container
}

func NewAlbumRow(actions *MenuActions, store types.MetadataStore, coverSize float32, scale func() float32) *AlbumRow {
	r := &AlbumRow{store: store, scale: scale, coverSize: coverSize}
	r.init(r, actions)

	r.cover = canvas.NewImageFromResource(nil)
	r.cover.FillMode = canvas.ImageFillContain
	r.cover.SetMinSize(fyne.NewSquareSize(coverSize))
	r.artist = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	r.album = widget.NewLabel("")
	r.album.Truncation = fyne.TextTruncateEllipsis
	r.header = container.NewBorder(nil, nil, r.cover, nil, container.NewVBox(r.artist, r.album))
	r.header.Hide()
	r.menuBtn.Hide()

	r.ExtendBaseWidget(r)
	return r
}

func (r *AlbumRow) SetCover(cover fyne.Resource, tooltip string) {
	r.cover.Resource = cover
	r.cover.Refresh()
	r.coverTooltip = tooltip
}

// CoverTooltip is the hover text of the cover: the album name.
func (r *AlbumRow) CoverTooltip() string { return r.coverTooltip }

// SetObjectID also links the row to the album its track belongs to.
func (r *AlbumRow) SetObjectID(id int64) {
	r.objectID = id
	r.albumID = 0
	if r.store == nil {
		return
	}
	if albumID, err := r.store.AlbumIDOfTrack(r.actions.ctx(), id); err == nil {
		r.albumID = albumID
	}
}

// AlbumID is the album linked by SetObjectID, 0 when unknown.
func (r *AlbumRow) AlbumID() int64 { return r.albumID }

func (r *AlbumRow) SetAlbumAndArtist(ctx context.Context, albumID int64) {
	artist, album := tracklist.ResolveAlbumHeader(ctx, r.store, albumID)
	r.artist.SetText(artist)
	r.album.SetText(album)
}

func (r *AlbumRow) AlbumHeader() (artist, album string) {
	return r.artist.Text, r.album.Text
}

// SetMenuVisible does nothing: album rows carry no row menu.
func (r *AlbumRow) SetMenuVisible(bool) {}

func (r *AlbumRow) SetHeaderVisible(visible bool) {
	if visible {
		r.header.Show()
	} else {
		r.header.Hide()
	}
}

func (r *AlbumRow) HeaderVisible() bool { return r.header.Visible() }

func (r *AlbumRow) ScaleFactor() float32 {
	if r.scale == nil {
		return 1
	}
	return r.scale()
}

func (r *AlbumRow) Tapped(*fyne.PointEvent) { r.activate() }

func (r *AlbumRow) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewVBox(r.header, r.trackLine(r.duration))
	return widget.NewSimpleRenderer(container.NewStack(r.background, content))
}
