package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/cristianadrielbraun/qrlogo/internal/compositor"
	"github.com/cristianadrielbraun/qrlogo/internal/export"
	"github.com/cristianadrielbraun/qrlogo/internal/qr"
	"github.com/cristianadrielbraun/qrlogo/internal/session"
	"github.com/cristianadrielbraun/qrlogo/web/components"
	"github.com/cristianadrielbraun/qrlogo/web/pages"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// logoThumbnailSize is the pixel size of the round logo preview.
const logoThumbnailSize = 128

// multipartOverhead is allowed on top of MaxLogoBytes for the form envelope.
const multipartOverhead = 64 << 10

type textForm struct {
	Text string `form:"text"`
}

type generateForm struct {
	Text  string `form:"text"`
	Color string `form:"color"`
}

type colorForm struct {
	Color string `form:"color" binding:"required"`
}

func (h *Handler) view(st session.State) components.FormView {
	return components.FormView{
		Text:          st.Text,
		ColorHex:      qr.FormatHexColor(st.Color),
		ResultVersion: st.Version,
		HasLogo:       st.Logo != nil,
		LogoToken:     strconv.Itoa(st.LogoVersion),
		Brand:         h.brand,
		BrandName:     h.brandName,
	}
}

// Home renders the form with the session's current state.
func (h *Handler) Home(c *gin.Context) {
	st := sessionFrom(c).Snapshot()
	h.render(c, http.StatusOK, pages.HomePage(h.view(st)))
}

// TextChanged records the input text without generating.
func (h *Handler) TextChanged(c *gin.Context) {
	var form textForm
	if err := c.ShouldBind(&form); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	sessionFrom(c).OnTextChanged(form.Text)
	c.Status(http.StatusNoContent)
}

// Generate runs the generator for the submitted text and color and swaps in
// the new result.
func (h *Handler) Generate(c *gin.Context) {
	var form generateForm
	if err := c.ShouldBind(&form); err != nil {
		h.toastError(c, apperror.Wrap(apperror.ErrEncoding, err))
		return
	}

	ctrl := sessionFrom(c)
	col := qr.ParseHexColorOr(form.Color, h.defaultColor)
	if _, err := ctrl.OnGenerateRequested(c.Request.Context(), form.Text, col); err != nil {
		h.toastError(c, err)
		return
	}
	h.render(c, http.StatusOK, components.Result(h.view(ctrl.Snapshot())))
}

// ColorChanged stores the color and swaps in a regenerated result when one
// was already shown. Otherwise nothing is swapped.
func (h *Handler) ColorChanged(c *gin.Context) {
	var form colorForm
	if err := c.ShouldBind(&form); err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	ctrl := sessionFrom(c)
	col := qr.ParseHexColorOr(form.Color, h.defaultColor)
	regenerated, err := ctrl.OnColorChanged(c.Request.Context(), col)
	if err != nil {
		h.toastError(c, err)
		return
	}
	if !regenerated {
		c.Status(http.StatusNoContent)
		return
	}
	h.render(c, http.StatusOK, components.Result(h.view(ctrl.Snapshot())))
}

// LogoUpload stores the uploaded logo and swaps in its preview. The current
// result is left as it is until the next generation.
func (h *Handler) LogoUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxLogoBytes+multipartOverhead)

	file, err := c.FormFile("logo")
	if err != nil {
		h.toastError(c, apperror.Wrap(apperror.ErrImageDecode, err))
		return
	}
	if file.Size > h.maxLogoBytes {
		h.toastError(c, apperror.Wrapf(apperror.ErrImageDecode, "logo is %d bytes, limit is %d", file.Size, h.maxLogoBytes))
		return
	}

	f, err := file.Open()
	if err != nil {
		h.toastError(c, apperror.Wrap(apperror.ErrImageDecode, err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxLogoBytes+1))
	if err != nil {
		h.toastError(c, apperror.Wrap(apperror.ErrImageDecode, errors.Wrap(err, "read logo")))
		return
	}

	ctrl := sessionFrom(c)
	if _, err := ctrl.OnLogoSelected(data); err != nil {
		h.toastError(c, err)
		return
	}
	h.render(c, http.StatusOK, components.LogoPreview(h.view(ctrl.Snapshot())))
}

// LogoImage serves the round preview of the session's logo.
func (h *Handler) LogoImage(c *gin.Context) {
	st := sessionFrom(c).Snapshot()
	if st.Logo == nil {
		c.Status(http.StatusNotFound)
		return
	}
	data, err := export.Encode(compositor.Thumbnail(st.Logo, logoThumbnailSize), export.PNG)
	if err != nil {
		h.logger(c).Error("encode logo preview", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "private, no-cache")
	c.Data(http.StatusOK, export.PNG.ContentType(), data)
}

// ResultImage serves the session's current bitmap.
func (h *Handler) ResultImage(c *gin.Context) {
	data, _, err := sessionFrom(c).Export()
	if apperror.IsSilent(err) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger(c).Error("encode result", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "private, no-cache")
	c.Data(http.StatusOK, export.PNG.ContentType(), data)
}

// ExportTrigger confirms the download and asks the page to fetch it. With
// nothing generated it does nothing.
func (h *Handler) ExportTrigger(c *gin.Context) {
	st := sessionFrom(c).Snapshot()
	if !st.HasResult() {
		c.Status(http.StatusNoContent)
		return
	}
	c.Header("HX-Trigger", fmt.Sprintf(`{"qrDownload":{"href":"/api/download?v=%d"}}`, st.Version))
	h.toastSuccess(c, apperror.MsgExportSuccess)
}

// Download sends the current bitmap as a PNG attachment. With nothing
// generated it responds with no content.
func (h *Handler) Download(c *gin.Context) {
	data, version, err := sessionFrom(c).Export()
	if apperror.IsSilent(err) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		h.logger(c).Error("export failed", zap.String("error_code", apperror.Code(err)), zap.Error(err))
		c.String(http.StatusInternalServerError, apperror.Message(err))
		return
	}

	name := export.Filename(h.brand, export.PNG)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	h.logger(c).Info("QR exported", zap.Int("version", version), zap.Int("bytes", len(data)))
	c.Data(http.StatusOK, export.PNG.ContentType(), data)
}
