package library

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
)

// Meta is what a file tells about itself.
type Meta struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Number      int
	Loved       bool
}

const lovedFrame = "LOVED"

// ReadMeta reads the ID3 tag of path when there is one and fills the gaps
// from the file name.
func ReadMeta(path string) (Meta, error) {
	var meta Meta

	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
		if err != nil {
			return meta, err
		}
		defer tag.Close()

		meta.Title = strings.TrimSpace(tag.Title())
		meta.Artist = strings.TrimSpace(tag.Artist())
		meta.Album = strings.TrimSpace(tag.Album())
		meta.AlbumArtist = textFrame(tag, "TPE2")
		meta.Number = parseTrackNumber(textFrame(tag, "TRCK"))
		meta.Loved = isLoved(tag)
	}

	number, title := splitFileName(path)
	if meta.Title == "" {
		meta.Title = title
	}
	if meta.Number == 0 {
		meta.Number = number
	}
	if meta.Album == "" {
		meta.Album = filepath.Base(filepath.Dir(path))
	}
	if meta.AlbumArtist == "" {
		meta.AlbumArtist = meta.Artist
	}
	return meta, nil
}

func textFrame(tag *id3v2.Tag, id string) string {
	return strings.TrimSpace(tag.GetTextFrame(id).Text)
}

func isLoved(tag *id3v2.Tag) bool {
	for _, f := range tag.GetFrames(tag.CommonID("User defined text information frame")) {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		if !ok || !strings.EqualFold(udtf.Description, lovedFrame) {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(udtf.Value)) {
		case "1", "true", "yes":
			return true
		}
	}
	return false
}

// parseTrackNumber handles "3" and "3/12".
func parseTrackNumber(s string) int {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// splitFileName turns "03 - Title.mp3" into (3, "Title").
func splitFileName(path string) (int, string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 0 || i == len(name) {
		return 0, name
	}
	n, _ := strconv.Atoi(name[:i])
	rest := strings.TrimLeft(name[i:], " .-_")
	if rest == "" {
		return 0, name
	}
	return n, rest
}

var coverNames = []string{"cover.jpg", "cover.png", "folder.jpg", "folder.png", "front.jpg", "cover.webp"}

// findCover returns a cover image lying next to the tracks of dir.
func findCover(dir string) string {
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
