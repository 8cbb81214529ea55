package stats

import (
	"log/slog"
	"net/http"

	pubsvc "libloan/service/publication"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc pubsvc.Service
	Log *slog.Logger
}

// GET /v1/admin/dashboard (admin)
// @Summary      Admin dashboard counters
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/admin/dashboard [get]
func (h *Controller) Dashboard(c echo.Context) error {
	d, err := h.Svc.Dashboard(c.Request().Context())
	if err != nil {
		h.Log.Error("dashboard", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": d})
}

// GET /v1/admin/statistics (admin)
// @Summary      Borrow statistics
// @Description  Per-category book counts, top-10 borrow leaderboard, overdue readers
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/admin/statistics [get]
func (h *Controller) Statistics(c echo.Context) error {
	st, err := h.Svc.Statistics(c.Request().Context())
	if err != nil {
		h.Log.Error("statistics", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": st})
}
