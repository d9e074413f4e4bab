package handlers

import (
	"net/http"

	"github.com/cristianadrielbraun/qrlogo/internal/apperror"
	"github.com/cristianadrielbraun/qrlogo/internal/logger"
	"github.com/cristianadrielbraun/qrlogo/web/components"
	toast "github.com/cristianadrielbraun/qrlogo/web/components/ui/toast"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// toastDuration is how long notifications stay on screen, in milliseconds.
const toastDuration = 3000

// GenericToast returns a Toast component rendered as HTML for HTMX swaps.
func (h *Handler) GenericToast(c *gin.Context) {
	h.render(c, http.StatusOK, toast.Toast(toast.Props{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		Variant:       toast.ParseVariant(c.PostForm("variant")),
		Position:      toast.PositionBottomRight,
		Duration:      2000,
		Dismissible:   c.PostForm("dismissible") == "on",
		ShowIndicator: false,
		Icon:          true,
	}))
}

// toastError shows err as an error notification, retargeting the swap to the
// toast container so the current result stays in place. Silent errors
// produce no response body.
func (h *Handler) toastError(c *gin.Context, err error) {
	if apperror.IsSilent(err) {
		c.Status(http.StatusNoContent)
		return
	}
	h.logger(c).Info("request rejected",
		zap.String(logger.KeyErrorCode, apperror.Code(err)),
		zap.String(logger.KeyFunction, c.HandlerName()),
		zap.Error(err))

	c.Header("HX-Retarget", "#"+components.ToastsID)
	c.Header("HX-Reswap", "beforeend")
	h.render(c, http.StatusOK, toast.Toast(toast.Props{
		Title:         apperror.TitleError,
		Description:   apperror.Message(err),
		Variant:       toast.VariantError,
		Position:      toast.PositionBottomRight,
		Duration:      toastDuration,
		Dismissible:   true,
		ShowIndicator: true,
		Icon:          true,
	}))
}

func (h *Handler) toastSuccess(c *gin.Context, msg string) {
	h.render(c, http.StatusOK, toast.Toast(toast.Props{
		Title:         apperror.TitleSuccess,
		Description:   msg,
		Variant:       toast.VariantSuccess,
		Position:      toast.PositionBottomRight,
		Duration:      toastDuration,
		Dismissible:   true,
		ShowIndicator: true,
		Icon:          true,
	}))
}
