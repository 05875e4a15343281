package ui

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"energyexplain/app"
	"energyexplain/domain/core"
	"energyexplain/domain/model"
	"energyexplain/domain/series"
	"energyexplain/internal/predictor"

	"github.com/gin-gonic/gin"
)

// trainParams are the optional overrides of the configured training options.
type trainParams struct {
	Target       string   `json:"target"`
	TestFraction *float64 `json:"test_fraction"`
	Seed         *int64   `json:"seed"`
}

func (p trainParams) options(defaults predictor.Options) (predictor.Options, error) {
	opts := defaults
	if p.Target != "" {
		t, ok := model.ParseTarget(p.Target)
		if !ok {
			return opts, core.NewValidationError("target", fmt.Sprintf("unknown target %q", p.Target))
		}
		opts.Target = t
	}
	if p.TestFraction != nil {
		if !(*p.TestFraction > 0 && *p.TestFraction < 1) {
			return opts, core.NewValidationError("test_fraction", "must be in (0,1)")
		}
		opts.TestFraction = *p.TestFraction
	}
	if p.Seed != nil {
		opts.Seed = *p.Seed
	}
	return opts, nil
}

type datasetRequest struct {
	Country string               `json:"country"`
	Records []series.RecordInput `json:"records"`
	trainParams
}

type predictRequest struct {
	Records []series.RecordInput `json:"records"`
}

type datasetResponse struct {
	Session app.SessionInfo `json:"session"`
	Metrics model.Metrics   `json:"metrics"`
	Rank    int             `json:"effective_rank"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	created(c, s.services.Sessions.Create())
}

func (s *Server) handleGetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	info, err := s.services.Sessions.Info(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := s.services.Sessions.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleLoadDataset accepts either a JSON body of records or a multipart
// upload with a "file" field holding a CSV or XLSX sheet.
func (s *Server) handleLoadDataset(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var (
		country string
		records []series.Record
		params  trainParams
		err     error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		country, records, params, err = s.readUpload(c)
	} else {
		var req datasetRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			badRequest(c, bindErr)
			return
		}
		country, params = req.Country, req.trainParams
		records, err = series.FromInputs(req.Records)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	opts, err := params.options(s.services.Sessions.DefaultOptions())
	if err != nil {
		respondError(c, err)
		return
	}
	st, err := s.services.Sessions.LoadDataset(c.Request.Context(), id, country, records, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	info, _ := s.services.Sessions.Info(id)
	c.JSON(http.StatusOK, datasetResponse{Session: info, Metrics: st.Model.Metrics(), Rank: st.Model.EffectiveRank()})
}

func (s *Server) readUpload(c *gin.Context) (string, []series.Record, trainParams, error) {
	var params trainParams
	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, params, core.NewValidationError("file", err.Error())
	}
	f, err := header.Open()
	if err != nil {
		return "", nil, params, core.NewValidationError("file", err.Error())
	}
	defer f.Close()

	records, err := s.services.Reader.ReadRecords(c.Request.Context(), f, header.Filename)
	if err != nil {
		return "", nil, params, err
	}

	params.Target = c.PostForm("target")
	if v := c.PostForm("test_fraction"); v != "" {
		frac, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", nil, params, core.NewValidationError("test_fraction", err.Error())
		}
		params.TestFraction = &frac
	}
	if v := c.PostForm("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return "", nil, params, core.NewValidationError("seed", err.Error())
		}
		params.Seed = &seed
	}
	return c.PostForm("country"), records, params, nil
}

func (s *Server) handleRetrain(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var params trainParams
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			badRequest(c, err)
			return
		}
	}
	opts, err := params.options(s.services.Sessions.DefaultOptions())
	if err != nil {
		respondError(c, err)
		return
	}
	st, err := s.services.Sessions.Retrain(c.Request.Context(), id, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	info, _ := s.services.Sessions.Info(id)
	c.JSON(http.StatusOK, datasetResponse{Session: info, Metrics: st.Model.Metrics(), Rank: st.Model.EffectiveRank()})
}

func (s *Server) handleModelSummary(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	summary, err := s.services.Explain.Summary(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handlePredict(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	records, err := series.FromInputs(req.Records)
	if err != nil {
		respondError(c, err)
		return
	}
	preds, err := s.services.Explain.Predict(id, records)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": preds})
}

func (s *Server) handleFuzzy(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	analysis, err := s.services.Explain.Fuzzy(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleDrivers(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	report, err := s.services.Explain.Drivers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleExplanation returns the dual explanation bundle, or only the
// rendered linguistic HTML when format=html.
func (s *Server) handleExplanation(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	bundle, err := s.services.Explain.Explain(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(bundle.Linguistic.HTML))
		return
	}
	c.JSON(http.StatusOK, bundle)
}
