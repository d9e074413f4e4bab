// Package handlers exposes the QR form and the stateless QR endpoint over HTTP.
package handlers

import (
	"image/color"
	"net"
	"strings"

	"github.com/a-h/templ"
	"github.com/cristianadrielbraun/qrlogo/internal/logger"
	"github.com/cristianadrielbraun/qrlogo/internal/qr"
	"github.com/cristianadrielbraun/qrlogo/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options are the dependencies of a Handler.
type Options struct {
	Sessions     *session.Store
	Generator    session.Generator
	Brand        string
	// BrandName is the footer link text.
	BrandName    string
	DefaultColor color.RGBA
	// MaxLogoBytes caps the size of an uploaded logo.
	MaxLogoBytes int64
	Logger       *zap.Logger
}

// Handler holds the dependencies shared by the HTTP handlers.
type Handler struct {
	sessions     *session.Store
	gen          session.Generator
	brand        string
	brandName    string
	defaultColor color.RGBA
	maxLogoBytes int64
	log          *zap.Logger
}

// New returns a Handler for opts.
func New(opts Options) *Handler {
	h := &Handler{
		sessions:     opts.Sessions,
		gen:          opts.Generator,
		brand:        opts.Brand,
		brandName:    opts.BrandName,
		defaultColor: opts.DefaultColor,
		maxLogoBytes: opts.MaxLogoBytes,
		log:          opts.Logger,
	}
	if h.defaultColor.A == 0 {
		h.defaultColor = qr.DefaultColor
	}
	if h.maxLogoBytes <= 0 {
		h.maxLogoBytes = 5 << 20
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	return h
}

// logger returns the request scoped logger.
func (h *Handler) logger(c *gin.Context) *zap.Logger {
	return logger.FromContext(c.Request.Context(), h.log)
}

// render writes component as an HTML response.
func (h *Handler) render(c *gin.Context, status int, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		h.logger(c).Error("render failed", zap.String(logger.KeyFunction, c.HandlerName()), zap.Error(err))
	}
}

// SitemapXML serves a minimal sitemap for the site.
func (h *Handler) SitemapXML(c *gin.Context) {
	c.Header("Content-Type", "application/xml; charset=utf-8")
	scheme := "https"
	host := c.Request.Host
	if xf := c.Request.Header.Get("X-Forwarded-Proto"); xf != "" {
		scheme = xf
	} else if c.Request.TLS == nil && isLocalHost(host) {
		scheme = "http"
	}
	base := scheme + "://" + host
	xml := "" +
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n" +
		"  <url>\n" +
		"    <loc>" + base + "/" + "</loc>\n" +
		"    <changefreq>weekly</changefreq>\n" +
		"    <priority>1.0</priority>\n" +
		"  </url>\n" +
		"</urlset>\n"
	c.String(200, xml)
}

func isLocalHost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host == "localhost" || host == "127.0.0.1" || strings.HasSuffix(host, ".localhost")
}
