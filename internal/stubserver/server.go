// Package stubserver is a local stand-in for the notebook conversion
// service. It speaks the same HTTP contract (health, convert/{format},
// {"detail": ...} errors) and renders a plain cell listing, which is enough
// to develop and test the client without the real backend.
package stubserver

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/csheth/notebookconv/internal/converter"
	"github.com/csheth/notebookconv/internal/session"
)

const msgNotNotebook = "File must be a .ipynb notebook"

// Options tunes the stub.
type Options struct {
	// WarmupDelay holds the first request back to imitate a cold start.
	WarmupDelay time.Duration
	// RequestLog receives one line per request; nil disables it.
	RequestLog io.Writer
	// MaxUploadBytes caps the request body. Zero means 32 MiB.
	MaxUploadBytes int64
}

type server struct {
	opts Options
	warm sync.Once
}

// New builds the echo instance with all routes registered.
func New(opts Options) *echo.Echo {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	s := &server{opts: opts}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = detailErrorHandler

	if opts.RequestLog != nil {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Format: "${time_rfc3339} ${id} ${method} ${uri} ${status} ${latency_human}\n",
			Output: opts.RequestLog,
		}))
	}
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{StackSize: 4 << 10}))
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", opts.MaxUploadBytes)))
	e.Use(s.coldStart)

	e.GET("/", handleRoot)
	e.GET("/health", handleHealth)
	e.POST("/convert/:format", s.handleConvert)
	return e
}

func (s *server) coldStart(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.warm.Do(func() {
			if s.opts.WarmupDelay > 0 {
				time.Sleep(s.opts.WarmupDelay)
			}
		})
		return next(c)
	}
}

func handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Notebook Converter API",
		"status":  "running",
	})
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *server) handleConvert(c echo.Context) error {
	r, ok := renderers[c.Param("format")]
	if !ok {
		return echo.ErrNotFound
	}

	fh, err := c.FormFile(converter.FileField)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{
				"loc":  []string{"body", converter.FileField},
				"msg":  "field required",
				"type": "value_error.missing",
			}},
		})
	}
	if !strings.HasSuffix(fh.Filename, session.NotebookExt) {
		return echo.NewHTTPError(http.StatusBadRequest, msgNotNotebook)
	}

	src, err := fh.Open()
	if err != nil {
		return conversionFailed(err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return conversionFailed(err)
	}

	nb, err := ParseNotebook(data)
	if err != nil {
		return conversionFailed(err)
	}
	out, err := r.render(strings.TrimSuffix(fh.Filename, session.NotebookExt), nb)
	if err != nil {
		return conversionFailed(err)
	}

	name := session.OutputName(fh.Filename, session.Format(c.Param("format")))
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+name)
	return c.Blob(http.StatusOK, r.contentType, out)
}

func conversionFailed(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, "Conversion failed: "+err.Error())
}

// detailErrorHandler writes every error as {"detail": message}.
func detailErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		default:
			msg = http.StatusText(code)
		}
	}
	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}
	c.JSON(code, map[string]string{"detail": msg})
}
