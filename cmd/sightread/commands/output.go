package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Conceptual-Machines/sightread-api/internal/i18n"
	"github.com/Conceptual-Machines/sightread-api/internal/library"
	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/playback"
	"github.com/Conceptual-Machines/sightread-api/internal/snapshot"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB000"))
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+msg))
}

// messageFor maps domain errors to message keys. Unknown errors map to "".
func messageFor(err error) string {
	var verr *snapshot.ValidationError
	switch {
	case errors.As(err, &verr):
		return i18n.MsgImportInvalid
	case errors.Is(err, library.ErrDuplicate):
		return i18n.MsgDuplicate
	case errors.Is(err, library.ErrNotFound):
		return i18n.MsgNotFound
	case errors.Is(err, library.ErrNoCurrent):
		return i18n.MsgNoCurrent
	case errors.Is(err, playback.ErrAlreadyPlaying):
		return i18n.MsgAlreadyPlaying
	}
	return ""
}

// summary is the one-line description of a score.
func summary(s *models.Score) string {
	return fmt.Sprintf("%s %s, %d bars, ♩=%d, density %d%%, %s–%s",
		s.Key, s.TimeSig, s.Bars, s.Tempo, s.NoteDensity, s.LowestPitch, s.HighestPitch)
}

// shortID abbreviates a score ID for tables.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func writeScoreTable(w io.Writer, scores []models.Score) {
	if len(scores) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(library is empty)"))
		return
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d / %d saved", len(scores), library.MaxEntries)))
	for i := range scores {
		s := &scores[i]
		fmt.Fprintf(w, "%3d  %s  %-28s %s\n",
			i+1,
			shortID(s.ID),
			fmt.Sprintf("%s %s ×%d ♩=%d", s.Key, s.TimeSig, s.Bars, s.Tempo),
			dimStyle.Render(humanize.Time(s.Created())),
		)
	}
}

func validationDetails(err error) string {
	var verr *snapshot.ValidationError
	if !errors.As(err, &verr) {
		return ""
	}
	lines := make([]string, 0, len(verr.Problems))
	for _, p := range verr.Problems {
		lines = append(lines, fmt.Sprintf("  %s: %s", p.Field, p.Rule))
	}
	return strings.Join(lines, "\n")
}
