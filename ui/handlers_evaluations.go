package ui

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"energyexplain/domain/evaluation"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleSubmitEvaluation(c *gin.Context) {
	var req evaluation.Response
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := s.services.Evaluations.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, saved)
}

func (s *Server) handleListEvaluations(c *gin.Context) {
	responses, err := s.services.Evaluations.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(responses), "responses": responses})
}

func (s *Server) handleEvaluationAnalytics(c *gin.Context) {
	analytics, err := s.services.Evaluations.Analytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

func (s *Server) handleExportEvaluations(c *gin.Context) {
	var buf bytes.Buffer
	n, err := s.services.Evaluations.Export(c.Request.Context(), &buf)
	if err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("evaluation_responses_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Header("X-Response-Count", fmt.Sprint(n))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) handleDeleteEvaluations(c *gin.Context) {
	n, err := s.services.Evaluations.DeleteAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
