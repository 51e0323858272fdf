package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/sightread-api/internal/models"
)

// cli runs commands against a private config and library directory.
type cli struct {
	t      *testing.T
	config string
	data   string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("locale: en\nwidth: 1000\n"), 0644))
	return &cli{t: t, config: config, data: filepath.Join(dir, "library")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", c.config, "--data-dir", c.data}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) score(args ...string) models.Score {
	c.t.Helper()
	out, err := c.run(append(args, "--json")...)
	require.NoError(c.t, err)
	var s models.Score
	require.NoError(c.t, json.Unmarshal([]byte(out), &s))
	return s
}

func (c *cli) list() []models.Score {
	c.t.Helper()
	out, err := c.run("library", "list", "--json")
	require.NoError(c.t, err)
	var scores []models.Score
	require.NoError(c.t, json.Unmarshal([]byte(out), &scores))
	return scores
}

func TestGenerateUsesFlags(t *testing.T) {
	c := newCLI(t)

	s := c.score("generate", "--key", "D", "--time", "3/4", "--bars", "4", "--tempo", "100")
	assert.Equal(t, "D", s.Key)
	assert.Equal(t, "3/4", s.TimeSig)
	assert.Equal(t, 4, s.Bars)
	assert.Equal(t, 100, s.Tempo)
	require.Len(t, s.Measures, 4)
	for _, m := range s.Measures {
		assert.Equal(t, 6, m.Units())
	}
	assert.Empty(t, c.list(), "generate without --save must not touch the library")
}

func TestGenerateFallsBackToConfigDefaults(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.WriteFile(c.config, []byte(`locale: en
defaults:
  key: F
  bars: 3
  tempo: 72
  time_sig: 2/4
  note_density: 50
  lowest_pitch: C4
  highest_pitch: C5
`), 0644))

	s := c.score("generate", "--bars", "5")
	assert.Equal(t, "F", s.Key)
	assert.Equal(t, "2/4", s.TimeSig)
	assert.Equal(t, 5, s.Bars)
	assert.Equal(t, 72, s.Tempo)
}

func TestGenerateTextOutput(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("generate", "--key", "G", "--bars", "2", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "G 4/4, 2 bars")
	assert.Contains(t, out, "Score saved to your library.")
	assert.Len(t, c.list(), 1)
}

func TestGenerateUnknownKey(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("generate", "--key", "H")
	require.Error(t, err)
	assert.Equal(t, `Unknown key "H".`, err.Error())
}

func TestLibraryLifecycle(t *testing.T) {
	c := newCLI(t)

	s := c.score("generate", "--bars", "2", "--save")
	scores := c.list()
	require.Len(t, scores, 1)
	assert.Equal(t, s.ID, scores[0].ID)

	_, err := c.run("generate", "--save")
	require.NoError(t, err)
	scores = c.list()
	require.Len(t, scores, 2)
	assert.NotEqual(t, s.ID, scores[0].ID, "newest first")

	applied := c.score("library", "apply", s.ID[:8])
	assert.Equal(t, s.ID, applied.ID)

	shown, err := c.run("library", "show", s.ID)
	require.NoError(t, err)
	assert.Contains(t, shown, s.ID)

	out, err := c.run("library", "delete", s.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Score deleted.")
	require.Len(t, c.list(), 1)

	_, err = c.run("library", "delete", s.ID)
	require.Error(t, err)
	assert.Equal(t, "Score not found.", err.Error())
}

func TestLibraryIDPrefixes(t *testing.T) {
	c := newCLI(t)
	s := c.score("generate", "--bars", "2", "--save")

	help, err := c.run("library", "--help")
	require.NoError(t, err)
	assert.Contains(t, help, "unique prefix of at least 4")

	applied := c.score("library", "apply", s.ID[:4])
	assert.Equal(t, s.ID, applied.ID)

	_, err = c.run("library", "show", s.ID[:3])
	require.Error(t, err)
	assert.Equal(t, "Score not found.", err.Error())
}

func TestLibraryListText(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("library", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "library is empty")

	s := c.score("generate", "--save")
	out, err = c.run("library", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 / 30 saved")
	assert.Contains(t, out, shortID(s.ID))
}

func TestExportImportRoundTrip(t *testing.T) {
	c := newCLI(t)
	s := c.score("generate", "--key", "Bb", "--bars", "3")

	data, err := c.run("library", "export", "-o", "-")
	require.NoError(t, err)
	var exported models.Score
	require.NoError(t, json.Unmarshal([]byte(data), &exported))
	assert.Equal(t, s.ID, exported.ID)

	dir := t.TempDir()
	out, err := c.run("library", "export", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "score-Bb-")
	files, err := filepath.Glob(filepath.Join(dir, "score-*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	out, err = c.run("library", "import", files[0])
	require.NoError(t, err)
	assert.Contains(t, out, "Score imported.")
	scores := c.list()
	require.Len(t, scores, 1)
	assert.Equal(t, s.ID, scores[0].ID)

	_, err = c.run("library", "import", files[0])
	require.Error(t, err)
	assert.Equal(t, "This score is already in your library.", err.Error())
}

func TestImportInvalidFile(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"key":"C","bars":-1}`), 0644))

	_, err := c.run("library", "import", path)
	require.Error(t, err)
	assert.Equal(t, "The file is not a valid score.", err.Error())
	assert.Empty(t, c.list())
}

func TestExportWithoutCurrent(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("library", "export", "-o", "-")
	require.Error(t, err)
	assert.Equal(t, "No score has been generated yet.", err.Error())
}

func TestLocalizedErrors(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.WriteFile(c.config, []byte("locale: es\n"), 0644))

	_, err := c.run("library", "delete", "missing")
	require.Error(t, err)
	assert.Equal(t, "Partitura no encontrada.", err.Error())
}

func TestResolveParams(t *testing.T) {
	cmd := &cobra.Command{}
	var flags models.ScoreParams
	cmd.Flags().StringVar(&flags.Key, "key", "C", "")
	cmd.Flags().IntVar(&flags.Bars, "bars", 8, "")
	cmd.Flags().IntVar(&flags.Tempo, "tempo", 80, "")
	cmd.Flags().StringVar(&flags.TimeSig, "time", "4/4", "")
	cmd.Flags().IntVar(&flags.NoteDensity, "density", 70, "")
	cmd.Flags().StringVar(&flags.LowestPitch, "low", "C4", "")
	cmd.Flags().StringVar(&flags.HighestPitch, "high", "G5", "")
	require.NoError(t, cmd.ParseFlags([]string{"--key", "A", "--density", "20"}))

	defaults := models.ScoreParams{Key: "F", Bars: 2, Tempo: 60, TimeSig: "6/8", NoteDensity: 90, LowestPitch: "E4", HighestPitch: "E5"}
	got := resolveParams(cmd, defaults, flags)
	assert.Equal(t, models.ScoreParams{Key: "A", Bars: 2, Tempo: 60, TimeSig: "6/8", NoteDensity: 20, LowestPitch: "E4", HighestPitch: "E5"}, got)
}
