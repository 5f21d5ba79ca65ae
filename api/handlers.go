package api

import (
	"bytes"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"solar-proposal/core/output"
	"solar-proposal/core/reference"
	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:            "ok",
		Version:           s.version,
		ReferenceSnapshot: s.engine.Provider().SnapshotHash(),
	})
}

// handleListRegions handles GET /api/v1/regions
func (s *Server) handleListRegions(c *gin.Context) {
	regions := s.engine.Provider().Regions()
	out := make([]RegionSummary, 0, len(regions))
	for _, r := range regions {
		out = append(out, RegionSummary{
			ID:              r.ID,
			Name:            r.Name,
			Zone:            r.Zone,
			Utility:         r.Utility,
			SolarIrradiance: r.SolarIrradiance,
			ExchangeRate:    r.ExchangeRate,
			NetMetering:     r.NetMetering,
		})
	}
	c.JSON(http.StatusOK, out)
}

// handleGetRegion handles GET /api/v1/regions/:id
func (s *Server) handleGetRegion(c *gin.Context) {
	region, err := s.engine.Provider().Region(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, region)
}

// handleCatalog handles GET /api/v1/catalog/:tier
func (s *Server) handleCatalog(c *gin.Context) {
	tier, err := types.ParseTier(c.Param("tier"))
	if err != nil {
		s.writeError(c, apperrors.Wrap(apperrors.TypeInvalidInput, "invalid tier", err))
		return
	}

	provider := s.engine.Provider()
	rates, err := provider.InstallationRates(tier)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, CatalogResponse{
		Tier:              tier,
		Panels:            provider.Panels(tier),
		Inverters:         provider.Inverters(tier),
		InstallationRates: rates,
		SelectionRules:    provider.SelectionRules(tier),
	})
}

// handleUtilityRegion handles GET /api/v1/utilities/:name/region
func (s *Server) handleUtilityRegion(c *gin.Context) {
	name := c.Param("name")
	id, ok := reference.RegionForUtility(name)
	if !ok {
		s.writeError(c, apperrors.NotFound("utility", name))
		return
	}
	c.JSON(http.StatusOK, UtilityResponse{Utility: name, RegionID: id})
}

// handleCreateProposal handles POST /api/v1/proposals.
// ?format=text or ?format=markdown returns a rendered report instead of JSON.
func (s *Server) handleCreateProposal(c *gin.Context) {
	var input types.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.writeError(c, apperrors.Wrap(apperrors.TypeInvalidInput, "invalid request body", err))
		return
	}

	proposal, err := s.engine.Generate(input)
	if err != nil {
		s.writeError(c, err)
		return
	}

	format := c.DefaultQuery("format", string(output.FormatJSON))
	if format == string(output.FormatJSON) {
		c.JSON(http.StatusCreated, output.NewView(proposal))
		return
	}

	formatter, err := s.formatters.Get(format)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := formatter.Render(&buf, proposal); err != nil {
		s.writeError(c, apperrors.Internal("failed to render proposal", err))
		return
	}
	contentType := "text/plain; charset=utf-8"
	if format == string(output.FormatMarkdown) {
		contentType = "text/markdown; charset=utf-8"
	}
	c.Data(http.StatusCreated, contentType, buf.Bytes())
}

// handleEstimateConsumption handles POST /api/v1/consumption/estimate
func (s *Server) handleEstimateConsumption(c *gin.Context) {
	var req ConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.Wrap(apperrors.TypeInvalidInput, "invalid request body", err))
		return
	}
	if req.Class == "" {
		req.Class = types.ClassResidential
	}
	if !req.Class.IsValid() {
		s.writeError(c, apperrors.InvalidInput("unknown installation class %q", req.Class))
		return
	}

	region, err := s.engine.Provider().Region(req.RegionID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	kwh, err := s.consumption.Estimate(req.MonthlyBillARS, region, req.Class)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ConsumptionResponse{
		RegionID:              region.ID,
		MonthlyBillARS:        req.MonthlyBillARS,
		MonthlyConsumptionKwh: output.Round(kwh, 1),
		AnnualConsumptionKwh:  output.Round(kwh*12, 0),
	})
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.TypeInvalidInput:
		return http.StatusBadRequest
	case apperrors.TypeNotFound:
		return http.StatusNotFound
	case apperrors.TypeNoEquipment:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	body := ErrorBody{
		Type:    string(apperrors.TypeOf(err)),
		Message: err.Error(),
	}
	if body.Type == "" {
		body.Type = string(apperrors.TypeInternal)
	}
	var ae *apperrors.Error
	if stderrors.As(err, &ae) {
		body.Context = ae.Context
	}

	c.AbortWithStatusJSON(statusFor(err), ErrorResponse{
		Error:     body,
		RequestID: c.GetString(requestIDKey),
	})
}
