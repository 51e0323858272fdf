package music

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Letter is a diatonic note name.
type Letter byte

// Diatonic letters in scale order starting from C.
const (
	C Letter = 'C'
	D Letter = 'D'
	E Letter = 'E'
	F Letter = 'F'
	G Letter = 'G'
	A Letter = 'A'
	B Letter = 'B'
)

// Letters lists the diatonic letters in the order the generator draws them.
var Letters = []Letter{C, D, E, F, G, A, B}

// letterOffsets are the semitone offsets of each natural from C
var letterOffsets = map[Letter]int{
	C: 0, D: 2, E: 4, F: 5, G: 7, A: 9, B: 11,
}

// Offset returns the semitone distance of the natural letter above C.
func (l Letter) Offset() int {
	return letterOffsets[l]
}

// Valid reports whether l is one of the seven diatonic letters.
func (l Letter) Valid() bool {
	_, ok := letterOffsets[l]
	return ok
}

func (l Letter) String() string {
	return string(l)
}

// Accidental is a chromatic alteration in semitones, from double flat (-2)
// to double sharp (+2).
type Accidental int

const (
	DoubleFlat  Accidental = -2
	Flat        Accidental = -1
	Natural     Accidental = 0
	Sharp       Accidental = 1
	DoubleSharp Accidental = 2
)

// String returns the textual spelling used in pitch names.
func (a Accidental) String() string {
	switch a {
	case DoubleFlat:
		return "bb"
	case Flat:
		return "b"
	case Sharp:
		return "#"
	case DoubleSharp:
		return "##"
	default:
		return ""
	}
}

// Pitch is the display form of a note: letter, accidental and octave.
type Pitch struct {
	Letter     Letter
	Accidental Accidental
	Octave     int
}

// Reference heights.
const (
	MiddleC    = 60
	ConcertA   = 69
	ConcertAHz = 440.0
	semitones  = 12
)

// Height converts the pitch to its absolute pitch height (C4 = 60).
func (p Pitch) Height() int {
	return (p.Octave+1)*semitones + p.Letter.Offset() + int(p.Accidental)
}

// Frequency returns the equal-tempered frequency of the pitch in Hz.
func (p Pitch) Frequency() float64 {
	return Frequency(p.Height())
}

func (p Pitch) String() string {
	return fmt.Sprintf("%s%s%d", p.Letter, p.Accidental, p.Octave)
}

// ParsePitch parses a note name like "C4", "F#3", "Bb2", "Ebb5" or "Gx1".
// Format: <letter><accidental?><octave> where:
//   - letter: A-G (case insensitive)
//   - accidental: "#", "##", "x", "b", "bb", "n" (natural), optional
//   - octave: integer, may be negative
func ParsePitch(name string) (Pitch, error) {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return Pitch{}, fmt.Errorf("pitch name too short: %q", name)
	}

	letter := Letter(strings.ToUpper(s[:1])[0])
	if !letter.Valid() {
		return Pitch{}, fmt.Errorf("invalid note letter in %q", name)
	}

	rest := s[1:]
	acc := Natural
	switch {
	case strings.HasPrefix(rest, "##"):
		acc, rest = DoubleSharp, rest[2:]
	case strings.HasPrefix(rest, "bb"):
		acc, rest = DoubleFlat, rest[2:]
	case strings.HasPrefix(rest, "#"):
		acc, rest = Sharp, rest[1:]
	case strings.HasPrefix(rest, "x"):
		acc, rest = DoubleSharp, rest[1:]
	case strings.HasPrefix(rest, "b"):
		acc, rest = Flat, rest[1:]
	case strings.HasPrefix(rest, "n"):
		rest = rest[1:]
	}

	if rest == "" {
		return Pitch{}, fmt.Errorf("missing octave in pitch %q", name)
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Pitch{}, fmt.Errorf("invalid octave in pitch %q: %w", name, err)
	}

	return Pitch{Letter: letter, Accidental: acc, Octave: octave}, nil
}

// HeightOf parses name and returns its pitch height, or fallback when the
// name is empty or malformed.
func HeightOf(name string, fallback int) int {
	p, err := ParsePitch(name)
	if err != nil {
		return fallback
	}
	return p.Height()
}

// Frequency converts a pitch height to Hz: 440 * 2^((h-69)/12).
func Frequency(height int) float64 {
	return ConcertAHz * math.Pow(2, float64(height-ConcertA)/semitones)
}
