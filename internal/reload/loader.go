package reload

import (
	"os"

	"codeberg.org/mutker/loopfetch/internal/errors"
)

// FileLoader reads the script from disk on every Load.
type FileLoader struct {
	Path string
}

func (f FileLoader) Load() (string, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", errors.New().Wrap(ErrSourceRead, err)
	}
	return string(b), nil
}

// StaticLoader always returns the same text.
type StaticLoader string

func (s StaticLoader) Load() (string, error) {
	return string(s), nil
}
