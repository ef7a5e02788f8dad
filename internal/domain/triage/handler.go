package triage

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lgi-triage/api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/triage", auth.RequireRole("admin", "clinician"))
	g.POST("/evaluate", h.Evaluate)
	g.POST("/summary", h.Summary)
	g.POST("/referral-email", h.ReferralEmail)
	g.GET("/pathways", h.ListPathways)
}

func (h *Handler) Evaluate(c echo.Context) error {
	var req EvaluationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	eval := h.svc.Evaluate(c.Request().Context(), req)
	return c.JSON(http.StatusOK, eval)
}

func (h *Handler) Summary(c echo.Context) error {
	var req EvaluationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	_, text := h.svc.Summary(c.Request().Context(), req)
	return c.String(http.StatusOK, text)
}

func (h *Handler) ReferralEmail(c echo.Context) error {
	var req EvaluationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	_, draft := h.svc.ReferralEmail(c.Request().Context(), req)
	return c.JSON(http.StatusOK, draft)
}

func (h *Handler) ListPathways(c echo.Context) error {
	return c.JSON(http.StatusOK, Pathways())
}
