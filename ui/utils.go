package ui

import (
	"net/http"

	"energyexplain/domain/core"
	apperrors "energyexplain/internal/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps err onto a status code and a {code, error} body.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.FromDomain(err)
	c.AbortWithStatusJSON(apperrors.HTTPStatus(appErr.Code), gin.H{
		"code":  appErr.Code,
		"error": appErr.Message,
	})
}

// badRequest reports a malformed request body or parameter.
func badRequest(c *gin.Context, err error) {
	respondError(c, apperrors.InvalidInput(err.Error()))
}

func sessionID(c *gin.Context) (core.SessionID, bool) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		badRequest(c, err)
		return "", false
	}
	return id, true
}

func created(c *gin.Context, body interface{}) {
	c.JSON(http.StatusCreated, body)
}
