package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinelane/ticketing/internal/image"
)

// ImageHandler serves avatar endpoints for viewers and sellers. Each
// owner kind carries its own manager so the two can run different blob
// strategies.
type ImageHandler struct {
	Viewers *image.Manager
	Sellers *image.Manager
}

func NewImageHandler(viewers, sellers *image.Manager) *ImageHandler {
	return &ImageHandler{Viewers: viewers, Sellers: sellers}
}

func (h *ImageHandler) UploadViewer(c echo.Context) error  { return h.upload(c, h.Viewers) }
func (h *ImageHandler) GetViewer(c echo.Context) error     { return h.retrieve(c, h.Viewers) }
func (h *ImageHandler) ReplaceViewer(c echo.Context) error { return h.replace(c, h.Viewers) }
func (h *ImageHandler) DeleteViewer(c echo.Context) error  { return h.remove(c, h.Viewers, "Viewer") }

func (h *ImageHandler) UploadSeller(c echo.Context) error  { return h.upload(c, h.Sellers) }
func (h *ImageHandler) GetSeller(c echo.Context) error     { return h.retrieve(c, h.Sellers) }
func (h *ImageHandler) ReplaceSeller(c echo.Context) error { return h.replace(c, h.Sellers) }
func (h *ImageHandler) DeleteSeller(c echo.Context) error  { return h.remove(c, h.Sellers, "Seller") }

func (h *ImageHandler) upload(c echo.Context, m *image.Manager) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	data, contentType, filename, err := readUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file field is required"})
	}
	if err := m.Upload(c.Request().Context(), id, data, contentType, filename); err != nil {
		return imageError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

func (h *ImageHandler) replace(c echo.Context, m *image.Manager) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	data, contentType, filename, err := readUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file field is required"})
	}
	if err := m.Replace(c.Request().Context(), id, data, contentType, filename); err != nil {
		return imageError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

func (h *ImageHandler) retrieve(c echo.Context, m *image.Manager) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	data, contentType, err := m.Retrieve(c.Request().Context(), id)
	if err != nil {
		return imageError(c, err)
	}
	return c.Blob(http.StatusOK, contentType, data)
}

func (h *ImageHandler) remove(c echo.Context, m *image.Manager, kind string) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := m.Delete(c.Request().Context(), id); err != nil {
		return imageError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": kind + " image deleted successfully"})
}

// readUpload pulls the multipart "file" part and returns its bytes
// together with the declared content type and original filename.
func readUpload(c echo.Context) (data []byte, contentType, filename string, err error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", "", err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", "", err
	}
	defer f.Close()
	data, err = io.ReadAll(f)
	if err != nil {
		return nil, "", "", err
	}
	return data, fh.Header.Get("Content-Type"), fh.Filename, nil
}

func imageError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, image.ErrInvalidFormat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, image.ErrOwnerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "owner not found"})
	case errors.Is(err, image.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage failure"})
	}
}
