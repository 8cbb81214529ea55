package document

import (
	"log/slog"
	"net/http"
	"strconv"

	"libloan/app/echoServer/jwtx"
	ingestsvc "libloan/service/ingest"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ingestsvc.Service
	Log *slog.Logger
}

// POST /v1/documents (multipart, field "file")
// @Summary      Upload a document
// @Description  Stores the file content-addressed, extracts its text and translates English content to Chinese
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "txt/md/doc/docx/pdf"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any "unsupported file type"
// @Router       /v1/documents [post]
func (h *Controller) Upload(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no file provided"})
	}
	src, err := fh.Open()
	if err != nil {
		h.Log.Error("open upload", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	defer src.Close()

	doc, err := h.Svc.Ingest(c.Request().Context(), src, fh.Filename, uid)
	if err != nil {
		if ingestsvc.Code(err) == ingestsvc.ErrUnsupportedType {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unsupported file type (txt/md/doc/docx/pdf only)"})
		}
		h.Log.Error("ingest", "err", err, "filename", fh.Filename, "user_id", uid)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "upload failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "document uploaded and parsed",
		"data":    doc,
	})
}

// GET /v1/documents
func (h *Controller) ListMine(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	docs, err := h.Svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("list documents", "err", err, "user_id", uid)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": docs})
}

// GET /v1/documents/:id (uploader or admin)
func (h *Controller) View(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	role, _ := jwtx.RoleFromContext(c)

	doc, err := h.Svc.Get(c.Request().Context(), id, uid, role)
	if err != nil {
		switch ingestsvc.Code(err) {
		case ingestsvc.ErrDocNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "document not found"})
		case ingestsvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("view document", "err", err, "document_id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": doc})
}
