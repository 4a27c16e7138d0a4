package api

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gopwr/adapters/excel"
	"gopwr/app"
	"gopwr/domain/power"
	"gopwr/internal/config"
	"gopwr/internal/errors"
	"gopwr/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PowerHandler serves power and sample-size calculations over HTTP
type PowerHandler struct {
	service  *app.PowerService
	defaults config.DefaultsConfig
	curves   *excel.CurveWriter
}

// NewPowerHandler creates a new power handler
func NewPowerHandler(service *app.PowerService, defaults config.DefaultsConfig) *PowerHandler {
	return &PowerHandler{
		service:  service,
		defaults: defaults,
		curves:   excel.NewCurveWriter(),
	}
}

// NewRouter builds the gin engine with all routes registered
func NewRouter(h *PowerHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/power/oneway", h.OneWayPower)
		v1.POST("/power/twoway", h.TwoWayPower)
		v1.POST("/samplesize/oneway", h.OneWaySampleSize)
		v1.POST("/samplesize/twoway", h.TwoWaySampleSize)
		v1.POST("/curve/oneway", h.OneWayCurve)
		v1.POST("/curve/twoway", h.TwoWayCurve)
	}

	return router
}

// OneWayPower handles POST /api/v1/power/oneway
func (h *PowerHandler) OneWayPower(c *gin.Context) {
	var req OneWayPowerRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.service.OneWayPower(power.OneWayDesign{
		Groups:   req.K,
		PerGroup: req.N,
		Alpha:    h.alpha(req.Alpha),
		Effect:   req.effect(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, res, nil, func() string { return report.OneWayPowerText(res) })
}

// TwoWayPower handles POST /api/v1/power/twoway
func (h *PowerHandler) TwoWayPower(c *gin.Context) {
	var req TwoWayPowerRequest
	if !bind(c, &req) {
		return
	}

	effectA, effectB := req.effects()
	res, err := h.service.TwoWayPower(power.TwoWayDesign{
		LevelsA: req.A,
		LevelsB: req.B,
		Alpha:   h.alpha(req.Alpha),
		SizeA:   req.SizeA,
		SizeB:   req.SizeB,
		EffectA: effectA,
		EffectB: effectB,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, res, nil, func() string { return report.TwoWayPowerText(res) })
}

// OneWaySampleSize handles POST /api/v1/samplesize/oneway
func (h *PowerHandler) OneWaySampleSize(c *gin.Context) {
	var req OneWaySampleSizeRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.service.OneWaySampleSize(power.OneWaySizing{
		Groups:      req.K,
		Alpha:       h.alpha(req.Alpha),
		TargetPower: req.Power,
		Effect:      req.effect(),
		Ceiling:     h.ceiling(req.Ceiling),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	capped := res.Capped()
	respond(c, res, &capped, func() string { return report.OneWaySampleSizeText(res) })
}

// TwoWaySampleSize handles POST /api/v1/samplesize/twoway
func (h *PowerHandler) TwoWaySampleSize(c *gin.Context) {
	var req TwoWaySampleSizeRequest
	if !bind(c, &req) {
		return
	}

	effectA, effectB := req.effects()
	res, err := h.service.TwoWaySampleSize(power.TwoWaySizing{
		LevelsA:     req.A,
		LevelsB:     req.B,
		Alpha:       h.alpha(req.Alpha),
		TargetPower: req.Power,
		EffectA:     effectA,
		EffectB:     effectB,
		Ceiling:     h.ceiling(req.Ceiling),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	capped := res.Capped()
	respond(c, res, &capped, func() string { return report.TwoWaySampleSizeText(res) })
}

// OneWayCurve handles POST /api/v1/curve/oneway
func (h *PowerHandler) OneWayCurve(c *gin.Context) {
	var req OneWayCurveRequest
	if !bind(c, &req) {
		return
	}

	curve, err := h.service.OneWayCurve(c.Request.Context(), power.OneWayDesign{
		Groups: req.K,
		Alpha:  h.alpha(req.Alpha),
		Effect: req.effect(),
	}, req.curveRange())
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondCurve(c, curve)
}

// TwoWayCurve handles POST /api/v1/curve/twoway
func (h *PowerHandler) TwoWayCurve(c *gin.Context) {
	var req TwoWayCurveRequest
	if !bind(c, &req) {
		return
	}

	effectA, effectB := req.effects()
	curve, err := h.service.TwoWayCurve(c.Request.Context(), power.TwoWayDesign{
		LevelsA: req.A,
		LevelsB: req.B,
		Alpha:   h.alpha(req.Alpha),
		EffectA: effectA,
		EffectB: effectB,
	}, req.curveRange())
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondCurve(c, curve)
}

// respondCurve sends the curve as JSON, or as a workbook with ?format=xlsx.
func (h *PowerHandler) respondCurve(c *gin.Context, curve *power.PowerCurve) {
	if c.Query("format") != "xlsx" {
		respond(c, curve, nil, func() string { return report.CurveText(curve) })
		return
	}

	var buf bytes.Buffer
	if err := h.curves.Write(curve, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="power_curve_`+curve.Kind+`.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *PowerHandler) alpha(v *float64) float64 {
	if v == nil {
		return h.defaults.Alpha
	}
	return *v
}

func (h *PowerHandler) ceiling(v int) int {
	if v <= 0 {
		return h.defaults.SearchCeiling
	}
	return v
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: errors.CodeInvalidInput})
		return false
	}
	return true
}

func respond(c *gin.Context, result interface{}, capped *bool, text func() string) {
	resp := Response{
		CalculationID: uuid.NewString(),
		Result:        result,
		Capped:        capped,
	}
	if c.Query("format") == "text" {
		resp.Report = text()
	}
	c.JSON(http.StatusOK, resp)
}

func respondError(c *gin.Context, err error) {
	if errors.IsInvalidInput(err) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: errors.CodeInvalidInput})
		return
	}
	log.Printf("❌ calculation failed: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: errors.GetCode(err)})
}
