package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apimiddleware "github.com/Conceptual-Machines/sightread-api/internal/api/middleware"
	"github.com/Conceptual-Machines/sightread-api/internal/i18n"
	"github.com/Conceptual-Machines/sightread-api/internal/library"
	"github.com/Conceptual-Machines/sightread-api/internal/logger"
	"github.com/Conceptual-Machines/sightread-api/internal/metrics"
	"github.com/Conceptual-Machines/sightread-api/internal/music"
	"github.com/Conceptual-Machines/sightread-api/internal/snapshot"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details"`
}

// base carries what every score and library handler needs.
type base struct {
	manager  *library.Manager
	recorder *metrics.Recorder
	tr       *i18n.Translator
}

func (b base) workspace(c *gin.Context) *library.Workspace {
	return b.manager.For(apimiddleware.Owner(c))
}

func (b base) t(c *gin.Context, key string, args ...interface{}) string {
	return b.tr.T(c.GetHeader("Accept-Language"), key, args...)
}

func (b base) badRequest(c *gin.Context, details ...string) {
	if details == nil {
		details = []string{}
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   b.t(c, i18n.MsgBadRequest),
		Details: details,
	})
}

// fail maps a domain error to its status code and localized message.
func (b base) fail(c *gin.Context, err error) {
	var verr *snapshot.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   b.t(c, i18n.MsgImportInvalid),
			Details: verr.Problems,
		})
	case errors.Is(err, music.ErrUnknownKey):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   b.t(c, i18n.MsgBadRequest),
			Details: []string{err.Error()},
		})
	case errors.Is(err, library.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: b.t(c, i18n.MsgDuplicate), Details: []string{}})
	case errors.Is(err, library.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: b.t(c, i18n.MsgNotFound), Details: []string{}})
	case errors.Is(err, library.ErrNoCurrent):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: b.t(c, i18n.MsgNoCurrent), Details: []string{}})
	default:
		logger.Error("Request failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: b.t(c, i18n.MsgInternal), Details: []string{}})
	}
}

// outcome classifies err for metrics.
func outcome(err error) string {
	var verr *snapshot.ValidationError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &verr), errors.Is(err, music.ErrUnknownKey):
		return metrics.OutcomeInvalid
	case errors.Is(err, library.ErrDuplicate):
		return metrics.OutcomeDuplicate
	case errors.Is(err, library.ErrNotFound), errors.Is(err, library.ErrNoCurrent):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
