package themes

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
)

func TestClassColor(t *testing.T) {
	assert.Equal(t, ColorNameRow, ClassColor("trackrow"))
	assert.Equal(t, ColorNameRowPlaying, ClassColor("trackrowplaying"))
	assert.Equal(t, ColorNameRowMenuSelected, ClassColor("track-menu-selected"))
	assert.Equal(t, ColorNameRow, ClassColor("something-else"))
}

func TestRowColorsDifferPerClass(t *testing.T) {
	for _, variant := range []string{"dark", "light"} {
		th := NewTheme(variant)
		row := th.Color(ColorNameRow, theme.VariantDark)
		playing := th.Color(ColorNameRowPlaying, theme.VariantDark)
		selected := th.Color(ColorNameRowMenuSelected, theme.VariantDark)

		assert.NotEqual(t, row, playing, variant)
		assert.NotEqual(t, playing, selected, variant)
		assert.Equal(t, color.NRGBA{A: 0}, row, variant)
	}
}

func TestUnknownColorFallsBack(t *testing.T) {
	test.NewTempApp(t)
	th := NewTheme("")
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameHeaderBackground, theme.VariantLight),
		th.Color(theme.ColorNameHeaderBackground, theme.VariantLight))
}
