package handlers

import (
	"errors"
	"image/color"
	"net/http"
	"strings"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/cristianadrielbraun/qrlogo/internal/export"
	"github.com/cristianadrielbraun/qrlogo/internal/qr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// qrQuery are the parameters of the stateless QR endpoint.
type qrQuery struct {
	Text string `form:"text"`
	// URL is accepted as an alias of Text.
	URL   string `form:"url"`
	Color string `form:"color"`
	// Fg is accepted as an alias of Color.
	Fg     string `form:"fg"`
	Shape  string `form:"shape" binding:"omitempty,oneof=square rectangle circle liquid chain hstripe vstripe"`
	Level  string `form:"level" binding:"omitempty,oneof=L M Q H l m q h"`
	Format string `form:"format" binding:"omitempty,oneof=png jpg jpeg"`
	Size   int    `form:"size" binding:"omitempty,min=64,max=4096"`
}

func (q qrQuery) request(defaultColor color.RGBA) qr.Request {
	text := q.Text
	if text == "" {
		text = strings.TrimSpace(q.URL)
	}
	colorParam := q.Color
	if colorParam == "" {
		colorParam = q.Fg
	}
	shape := qr.Shape(q.Shape)
	if shape == "rectangle" {
		shape = qr.ShapeSquare
	}
	return qr.Request{
		Text:  text,
		Color: qr.ParseHexColorOr(colorParam, defaultColor),
		Size:  q.Size,
		Level: qr.Level(strings.ToUpper(q.Level)),
		Shape: shape,
	}
}

// QRCodeHandler renders a QR code for the query parameters without touching
// any session. No logo is applied.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	var q qrQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := q.request(h.defaultColor)
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperror.MsgEmptyPayload, "code": apperror.CodeEmptyPayload})
		return
	}

	img, err := h.gen.Generate(c.Request.Context(), req, nil)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperror.ErrEmptyPayload) {
			status = http.StatusBadRequest
		}
		h.logger(c).Warn("stateless generation failed", zap.String("error_code", apperror.Code(err)), zap.Error(err))
		c.JSON(status, gin.H{"error": apperror.Message(err), "code": apperror.Code(err)})
		return
	}

	format := export.ParseFormat(q.Format)
	data, err := export.Encode(img, format)
	if err != nil {
		h.logger(c).Error("encode QR code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperror.MsgEncoding, "code": apperror.CodeEncoding})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600") // Cache for 1 hour
	c.Data(http.StatusOK, format.ContentType(), data)
}
