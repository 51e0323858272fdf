package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/sightread-api/internal/i18n"
	"github.com/Conceptual-Machines/sightread-api/internal/library"
	"github.com/Conceptual-Machines/sightread-api/internal/logger"
	"github.com/Conceptual-Machines/sightread-api/internal/metrics"
	"github.com/Conceptual-Machines/sightread-api/internal/snapshot"
)

// TransferHandler exports and imports score files.
type TransferHandler struct {
	base
}

func NewTransferHandler(manager *library.Manager, recorder *metrics.Recorder, tr *i18n.Translator) *TransferHandler {
	return &TransferHandler{base{manager: manager, recorder: recorder, tr: tr}}
}

// Export downloads a saved score, or the active score on routes without
// an :id.
func (h *TransferHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	data, filename, err := h.workspace(c).Export(ctx, c.Param("id"))
	h.recorder.LibraryOperation(ctx, "export", outcome(err))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, "application/json", data)
}

// Import reads a score file from the raw request body or from the "file"
// field of a multipart form, adds it to the library and makes it active.
func (h *TransferHandler) Import(c *gin.Context) {
	ctx := c.Request.Context()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	data, err := h.readUpload(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	score, err := h.workspace(c).Import(ctx, data)
	var verr *snapshot.ValidationError
	problems := 0
	if errors.As(err, &verr) {
		problems = len(verr.Problems)
	}
	h.recorder.Import(ctx, outcome(err), problems)
	if err != nil {
		h.fail(c, err)
		return
	}

	fields := logger.WithContext(c)
	fields["score_id"] = score.ID
	logger.Info("Score imported", fields)

	c.JSON(http.StatusCreated, gin.H{
		"message": h.t(c, i18n.MsgImported),
		"score":   score,
	})
}

func (h *TransferHandler) readUpload(c *gin.Context) ([]byte, error) {
	if c.ContentType() != "multipart/form-data" {
		return c.GetRawData()
	}

	header, err := c.FormFile(importFormField)
	if err != nil {
		return nil, fmt.Errorf("missing %q form file: %w", importFormField, err)
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxImportBytes))
}
