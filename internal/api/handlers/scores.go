package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Conceptual-Machines/sightread-api/internal/i18n"
	"github.com/Conceptual-Machines/sightread-api/internal/library"
	"github.com/Conceptual-Machines/sightread-api/internal/logger"
	"github.com/Conceptual-Machines/sightread-api/internal/metrics"
	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/music"
	"github.com/Conceptual-Machines/sightread-api/internal/playback"
	"github.com/Conceptual-Machines/sightread-api/internal/render"
)

// ScoreHandler serves generation and the active score.
type ScoreHandler struct {
	base
}

func NewScoreHandler(manager *library.Manager, recorder *metrics.Recorder, tr *i18n.Translator) *ScoreHandler {
	return &ScoreHandler{base{manager: manager, recorder: recorder, tr: tr}}
}

// Keys lists the supported key names.
func (h *ScoreHandler) Keys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keys": music.Keys()})
}

// TimeSignatures lists the offered time signatures.
func (h *ScoreHandler) TimeSignatures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"timeSignatures": music.SupportedTimeSignatures})
}

// Params returns the owner's editable parameters.
func (h *ScoreHandler) Params(c *gin.Context) {
	params, err := h.workspace(c).Params(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, params)
}

// Generate replaces the active score with a new one. An empty body reuses
// the current parameters.
func (h *ScoreHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	ws := h.workspace(c)

	body, err := c.GetRawData()
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	// Omitted fields keep their defaults; an explicit zero stays zero.
	params := models.DefaultParams()
	if len(body) == 0 {
		if params, err = ws.Params(ctx); err != nil {
			h.fail(c, err)
			return
		}
	} else if err := binding.JSON.BindBody(body, &params); err != nil {
		h.badRequest(c, err.Error())
		return
	}

	start := time.Now()
	score, err := ws.Regenerate(ctx, params)
	duration := time.Since(start)

	if err != nil {
		h.recorder.Generation(ctx, params.Key, params.TimeSig, params.Bars, duration, false)
		if errors.Is(err, music.ErrUnknownKey) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   h.t(c, i18n.MsgUnknownKey, params.Key),
				Details: []string{err.Error()},
			})
			return
		}
		h.fail(c, err)
		return
	}

	h.recorder.Generation(ctx, score.Key, score.TimeSig, score.Bars, duration, true)
	logger.LogGeneration(ctx, score.Key, score.TimeSig, score.Bars, duration, logger.WithContext(c))

	c.JSON(http.StatusOK, score)
}

// Current returns the active score.
func (h *ScoreHandler) Current(c *gin.Context) {
	score, err := h.workspace(c).Current(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// Layout splits the active score into staff lines for ?width=N pixels.
// ?format=text returns the terminal rendering instead of JSON.
func (h *ScoreHandler) Layout(c *gin.Context) {
	width, ok := h.intQuery(c, "width", defaultLayoutWidth, 0, maxLayoutWidth)
	if !ok {
		return
	}
	score, err := h.workspace(c).Current(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	sheet := render.Layout(score, width)
	if c.Query("format") == "text" {
		c.String(http.StatusOK, render.TextWith(sheet, render.PlainStyles()))
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// Playback returns the tone schedule of the active score at ?tempo=N, or at
// the score's own tempo.
func (h *ScoreHandler) Playback(c *gin.Context) {
	tempo, ok := h.intQuery(c, "tempo", 0, models.MinTempo, models.MaxTempo)
	if !ok {
		return
	}
	score, err := h.workspace(c).Current(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	plan := playback.Schedule(score, tempo)
	fields := logger.WithContext(c)
	fields["tones"] = len(plan.Tones)
	fields["tempo"] = plan.Tempo
	logger.Debug("Playback scheduled", fields)
	c.JSON(http.StatusOK, plan)
}

// intQuery parses an optional integer query parameter within [lo, hi].
func (h *ScoreHandler) intQuery(c *gin.Context, name string, def, lo, hi int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		h.badRequest(c, name+" must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
		return 0, false
	}
	return n, true
}
