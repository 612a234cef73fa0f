package server

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo *echo.Echo
	db   *sql.DB
}

func New(db *sql.DB) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo: e,
		db:   db,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)

	api.POST("/coupons/validate", s.validateCoupon)

	api.POST("/orders", s.placeOrder)
	api.GET("/orders", s.listOrders)
	api.GET("/orders/:id", s.getOrder)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Handler exposes the routed mux for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
