package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

type decodeFunc func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".mp3": mp3.Decode,
	".ogg": vorbis.Decode,
	".oga": vorbis.Decode,
	".wav": func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		s, f, err := wav.Decode(rc)
		if err != nil {
			return nil, f, err
		}
		return closer{s, rc}, f, nil
	},
}

// closer makes sure the file behind a decoder is closed with it. The wav
// decoder may already have closed it.
type closer struct {
	beep.StreamSeekCloser
	file io.Closer
}

func (c closer) Close() error {
	err := c.StreamSeekCloser.Close()
	if ferr := c.file.Close(); err == nil && !errors.Is(ferr, os.ErrClosed) {
		err = ferr
	}
	return err
}

// Supported reports whether path has an extension the player can decode.
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Formats lists the supported file extensions.
func Formats() []string {
	return []string{".mp3", ".ogg", ".oga", ".wav"}
}

func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s, format, err := decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return s, format, nil
}
