package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/sightread-api/internal/i18n"
	"github.com/Conceptual-Machines/sightread-api/internal/library"
	"github.com/Conceptual-Machines/sightread-api/internal/logger"
	"github.com/Conceptual-Machines/sightread-api/internal/metrics"
)

// LibraryHandler serves the saved-score library.
type LibraryHandler struct {
	base
}

func NewLibraryHandler(manager *library.Manager, recorder *metrics.Recorder, tr *i18n.Translator) *LibraryHandler {
	return &LibraryHandler{base{manager: manager, recorder: recorder, tr: tr}}
}

// List returns the saved scores, most recent first.
func (h *LibraryHandler) List(c *gin.Context) {
	scores, err := h.workspace(c).Library(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scores":     scores,
		"count":      len(scores),
		"maxEntries": library.MaxEntries,
	})
}

// Get returns one saved score.
func (h *LibraryHandler) Get(c *gin.Context) {
	score, err := h.workspace(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// Save adds the active score to the library.
func (h *LibraryHandler) Save(c *gin.Context) {
	ctx := c.Request.Context()
	score, err := h.workspace(c).SaveCurrent(ctx)
	h.recorder.LibraryOperation(ctx, "save", outcome(err))
	if err != nil {
		h.fail(c, err)
		return
	}

	fields := logger.WithContext(c)
	fields["score_id"] = score.ID
	logger.Info("Score saved", fields)

	c.JSON(http.StatusCreated, gin.H{
		"message": h.t(c, i18n.MsgSaved),
		"score":   score,
	})
}

// Apply makes a saved score active and returns it with the parameters it
// restores.
func (h *LibraryHandler) Apply(c *gin.Context) {
	ctx := c.Request.Context()
	score, err := h.workspace(c).Apply(ctx, c.Param("id"))
	h.recorder.LibraryOperation(ctx, "apply", outcome(err))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"score":  score,
		"params": score.Params(),
	})
}

// Delete removes a saved score.
func (h *LibraryHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	err := h.workspace(c).Delete(ctx, id)
	h.recorder.LibraryOperation(ctx, "delete", outcome(err))
	if err != nil {
		h.fail(c, err)
		return
	}

	fields := logger.WithContext(c)
	fields["score_id"] = id
	logger.Info("Score deleted", fields)

	c.JSON(http.StatusOK, gin.H{"message": h.t(c, i18n.MsgDeleted)})
}
