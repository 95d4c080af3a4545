package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"

	"github.com/Alexander-D-Karpov/tracklist/internal/codecs"
)

type DecodeFunc func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]DecodeFunc{
	".mp3": mp3.Decode,
	".wav": func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return wav.Decode(rc)
	},
}

// DecoderFor returns the decoder registered for the extension of path.
func DecoderFor(path string) (DecodeFunc, bool) {
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return decode, ok
}

// CanDecode reports whether a decoder exists for path.
func CanDecode(path string) bool {
	_, ok := DecoderFor(path)
	return ok
}

// Open decodes path. Files without a decoder fail with a missing-plugin
// *codecs.Diagnostic; other failures with a decode diagnostic.
func Open(path string) (beep.StreamSeekCloser, beep.Format, error) {
	decode, ok := DecoderFor(path)
	if !ok {
		return nil, beep.Format{}, codecs.MissingPluginFor(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, &codecs.Diagnostic{
			Domain:  codecs.DomainResource,
			Code:    codecs.CodeNotFound,
			Message: err.Error(),
			Source:  path,
		}
	}

	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, &codecs.Diagnostic{
			Domain:  codecs.DomainStream,
			Code:    codecs.CodeDecode,
			Message: fmt.Sprintf("decode: %v", err),
			Source:  path,
		}
	}
	return streamer, format, nil
}

// Probe returns the playing time of path.
func Probe(path string) (time.Duration, error) {
	streamer, format, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}
