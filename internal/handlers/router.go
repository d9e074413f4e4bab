package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every route of the application onto a new gin engine.
func NewRouter(h *Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(log))
	r.Use(Recovery(log))

	r.GET("/sitemap.xml", h.SitemapXML)

	// Pages
	r.GET("/", h.Sessions(), h.Home)

	// API routes
	api := r.Group("/api")
	{
		api.GET("/qr", h.QRCodeHandler)
		api.POST("/htmx/toast", h.GenericToast)
	}

	// Form routes, bound to the caller's session
	form := api.Group("", h.Sessions())
	{
		form.POST("/text", h.TextChanged)
		form.POST("/generate", h.Generate)
		form.POST("/color", h.ColorChanged)
		form.POST("/logo", h.LogoUpload)
		form.GET("/logo.png", h.LogoImage)
		form.GET("/result.png", h.ResultImage)
		form.POST("/export", h.ExportTrigger)
		form.GET("/download", h.Download)
	}

	return r
}
