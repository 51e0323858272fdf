package music

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned for key names outside the supported set.
var ErrUnknownKey = errors.New("unknown key")

// KeyManager resolves the accidental a natural letter carries in a key.
type KeyManager interface {
	AccidentalFor(letter Letter) Accidental
}

// Key is a major or minor key signature. Signature counts sharps when
// positive and flats when negative.
type Key struct {
	name      string
	signature int
}

var (
	orderOfSharps = []Letter{F, C, G, D, A, E, B}
	orderOfFlats  = []Letter{B, E, A, D, G, C, F}
)

// keySignatures maps key names to their sharp (+) or flat (-) count.
var keySignatures = map[string]int{
	"Cb": -7, "Gb": -6, "Db": -5, "Ab": -4, "Eb": -3, "Bb": -2, "F": -1,
	"C": 0,
	"G": 1, "D": 2, "A": 3, "E": 4, "B": 5, "F#": 6, "C#": 7,

	"Abm": -7, "Ebm": -6, "Bbm": -5, "Fm": -4, "Cm": -3, "Gm": -2, "Dm": -1,
	"Am": 0,
	"Em": 1, "Bm": 2, "F#m": 3, "C#m": 4, "G#m": 5, "D#m": 6, "A#m": 7,
}

// keyOrder lists key names around the circle of fifths, majors then minors.
var keyOrder = []string{
	"C", "G", "D", "A", "E", "B", "F#", "C#", "F", "Bb", "Eb", "Ab", "Db", "Gb", "Cb",
	"Am", "Em", "Bm", "F#m", "C#m", "G#m", "D#m", "A#m", "Dm", "Gm", "Cm", "Fm", "Bbm", "Ebm", "Abm",
}

// Keys returns every supported key name.
func Keys() []string {
	out := make([]string, len(keyOrder))
	copy(out, keyOrder)
	return out
}

// ParseKey resolves a key name such as "C", "F#", "Bbm" or "c#m". The letter
// is case-insensitive; "min" and "minor" suffixes are accepted for minor keys.
func ParseKey(name string) (Key, error) {
	canonical := canonicalKeyName(name)
	sig, ok := keySignatures[canonical]
	if !ok {
		return Key{}, fmt.Errorf("%w %q", ErrUnknownKey, name)
	}
	return Key{name: canonical, signature: sig}, nil
}

// MustKey is like ParseKey but panics on an unknown name.
func MustKey(name string) Key {
	k, err := ParseKey(name)
	if err != nil {
		panic(err)
	}
	return k
}

func canonicalKeyName(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return s
	}
	for _, suffix := range []string{"minor", "min"} {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			s = strings.TrimSuffix(s, suffix) + "m"
			break
		}
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Name returns the canonical key name.
func (k Key) Name() string { return k.name }

// Signature returns the number of sharps (positive) or flats (negative).
func (k Key) Signature() int { return k.signature }

// Minor reports whether the key is a minor key.
func (k Key) Minor() bool { return strings.HasSuffix(k.name, "m") }

// AccidentalFor returns the accidental the key signature applies to letter.
func (k Key) AccidentalFor(letter Letter) Accidental {
	switch {
	case k.signature > 0:
		for _, l := range orderOfSharps[:k.signature] {
			if l == letter {
				return Sharp
			}
		}
	case k.signature < 0:
		for _, l := range orderOfFlats[:-k.signature] {
			if l == letter {
				return Flat
			}
		}
	}
	return Natural
}

func (k Key) String() string { return k.name }
