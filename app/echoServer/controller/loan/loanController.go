package loan

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"libloan/app/echoServer/jwtx"
	loansvc "libloan/service/loan"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc loansvc.Service
	Log *slog.Logger
}

// POST /v1/publications/:id/borrow
// @Summary      Borrow a publication
// @Tags         loans
// @Produce      json
// @Success      201  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any "already borrowed"
// @Router       /v1/publications/{id}/borrow [post]
func (h *Controller) Borrow(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	out, err := h.Svc.Borrow(c.Request().Context(), id, uid)
	if err != nil {
		switch loansvc.Code(err) {
		case loansvc.ErrPubNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "publication not found"})
		case loansvc.ErrAlreadyBorrowed:
			msg := "already borrowed"
			if due := loansvc.DueFromErr(err); due != nil {
				msg = fmt.Sprintf("already borrowed, expected back %s", due.Format("2006-01-02"))
			}
			return c.JSON(http.StatusConflict, echo.Map{"message": msg})
		default:
			h.Log.Error("borrow", "err", err, "publication_id", id, "user_id", uid)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("borrowed %q, due back %s", out.Title, out.DueDate.Format("2006-01-02")),
		"data":    out,
	})
}

// POST /v1/publications/:id/return
// @Summary      Return a publication
// @Tags         loans
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any "not the borrower"
// @Failure      409  {object}  map[string]any "not borrowed"
// @Router       /v1/publications/{id}/return [post]
func (h *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	out, err := h.Svc.Return(c.Request().Context(), id, uid)
	if err != nil {
		switch loansvc.Code(err) {
		case loansvc.ErrPubNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "publication not found"})
		case loansvc.ErrNotBorrowed:
			return c.JSON(http.StatusConflict, echo.Map{"message": "publication is not borrowed"})
		case loansvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "you did not borrow this publication"})
		default:
			h.Log.Error("return", "err", err, "publication_id", id, "user_id", uid)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("returned %q", out.Title),
		"data":    out,
	})
}

// GET /v1/loans/my
func (h *Controller) MyBorrows(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.MyBorrows(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("my borrows", "err", err, "user_id", uid)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/loans/my/history
func (h *Controller) MyHistory(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.MyHistory(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("loan history", "err", err, "user_id", uid)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/admin/overdue (admin)
func (h *Controller) Overdue(c echo.Context) error {
	rows, err := h.Svc.OverdueReport(c.Request().Context())
	if err != nil {
		h.Log.Error("overdue report", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
