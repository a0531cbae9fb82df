// Package httpapi exposes the query engine over HTTP using echo.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"addrindex/internal/query"
)

// Server wires an echo.Echo to one query.Engine.
type Server struct {
	engine *query.Engine
	echo   *echo.Echo
}

// maxItemsOrUnbounded reads the "max-items" header; an absent or
// unparseable value means unbounded (-1).
func maxItemsOrUnbounded(c echo.Context) int {
	raw := c.Request().Header.Get("max-items")
	if raw == "" {
		return -1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func respondNotFound(c echo.Context, err error) error {
	var nf *query.NotFoundError
	if errors.As(err, &nf) {
		return c.String(http.StatusNotFound, nf.Error())
	}
	return c.String(http.StatusInternalServerError, "internal error")
}

func (s *Server) handleCities(c echo.Context) error {
	results, err := s.engine.ListCities(c.QueryParam("country_code"), c.QueryParam("prefix"), maxItemsOrUnbounded(c))
	if err != nil {
		return respondNotFound(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleZips(c echo.Context) error {
	results, err := s.engine.ListZips(c.QueryParam("country_code"), c.QueryParam("city_name"), c.QueryParam("prefix"), maxItemsOrUnbounded(c))
	if err != nil {
		return respondNotFound(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleStreets(c echo.Context) error {
	results, err := s.engine.ListStreets(c.QueryParam("country_code"), c.QueryParam("city_name"), c.QueryParam("zip"), c.QueryParam("prefix"), maxItemsOrUnbounded(c))
	if err != nil {
		return respondNotFound(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleHousenumbers(c echo.Context) error {
	results, err := s.engine.ListHousenumbers(
		c.QueryParam("country_code"), c.QueryParam("city_name"), c.QueryParam("zip"), c.QueryParam("street"),
		c.QueryParam("prefix"), maxItemsOrUnbounded(c),
	)
	if err != nil {
		return respondNotFound(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
