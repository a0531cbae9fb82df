package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"addrindex/internal/query"
)

// New builds a Server around engine, registering the four
// prefix-completion routes plus /health.
func New(engine *query.Engine) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Recover())
	e.Use(ColorizedLogger())

	s := &Server{engine: engine, echo: e}
	e.GET("/health", s.handleHealth)
	e.GET("/cities", s.handleCities)
	e.GET("/zips", s.handleZips)
	e.GET("/streets", s.handleStreets)
	e.GET("/housenumbers", s.handleHousenumbers)

	return s
}

// ListenAndServe blocks serving on addr until ctx is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
