package publication

import (
	"log/slog"
	"net/http"
	"strconv"

	pubsvc "libloan/service/publication"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc pubsvc.Service
	Log *slog.Logger
}

// POST /v1/publications (admin)
// @Summary      Create publication
// @Tags         publications
// @Accept       json
// @Produce      json
// @Param        payload  body  CreatePublicationReq  true  "Publication payload"
// @Success      201  {object}  map[string]any
// @Failure      409  {object}  map[string]any "ISBN already exists"
// @Router       /v1/publications [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreatePublicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	p, err := h.Svc.Create(c.Request().Context(), pubsvc.CreateReq{
		Title:     req.Title,
		Type:      req.Type,
		Author:    req.Author,
		ISBN:      req.ISBN,
		Category:  req.Category,
		Issue:     req.Issue,
		Publisher: req.Publisher,
		IsLatest:  req.IsLatest,
	})
	if err != nil {
		switch pubsvc.Code(err) {
		case pubsvc.ErrISBNTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "ISBN already exists"})
		case pubsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("publication create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": p})
}

// GET /v1/publications
// Lists available items for readers; ?search= filters on title,
// ?type=book|magazine|all filters on type, ?all=true lists everything
// (catalog management view).
func (h *Controller) List(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("all") == "true" {
		out, err := h.Svc.List(ctx)
		if err != nil {
			h.Log.Error("publication list", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"data": out})
	}

	out, err := h.Svc.SearchAvailable(ctx, c.QueryParam("search"), c.QueryParam("type"))
	if err != nil {
		h.Log.Error("publication search", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/publications/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	p, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if pubsvc.Code(err) == pubsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "publication not found"})
		}
		h.Log.Error("publication detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}

// DELETE /v1/publications/:id (admin)
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if pubsvc.Code(err) == pubsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "publication not found"})
		}
		h.Log.Error("publication delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
