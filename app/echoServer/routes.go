package echoServer

import (
	"libloan/app/echoServer/controller/auth"
	"libloan/app/echoServer/controller/document"
	"libloan/app/echoServer/controller/loan"
	"libloan/app/echoServer/controller/publication"
	"libloan/app/echoServer/controller/stats"
	"libloan/model"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth        *auth.Controller
	Publication *publication.Controller
	Loan        *loan.Controller
	Document    *document.Controller
	Stats       *stats.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Authenticated
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	authed.Use(ExtractIdentity())

	// Catalog
	authed.GET("/publications", c.Publication.List)
	authed.GET("/publications/:id", c.Publication.Detail)

	// Loans
	authed.POST("/publications/:id/borrow", c.Loan.Borrow)
	authed.POST("/publications/:id/return", c.Loan.Return)
	authed.GET("/loans/my", c.Loan.MyBorrows)
	authed.GET("/loans/my/history", c.Loan.MyHistory)

	// Documents
	authed.POST("/documents", c.Document.Upload)
	authed.GET("/documents", c.Document.ListMine)
	authed.GET("/documents/:id", c.Document.View)

	// Admin
	admin := authed.Group("", RequireRole(model.RoleAdmin))
	admin.POST("/publications", c.Publication.Create)
	admin.DELETE("/publications/:id", c.Publication.Delete)
	admin.GET("/admin/dashboard", c.Stats.Dashboard)
	admin.GET("/admin/statistics", c.Stats.Statistics)
	admin.GET("/admin/overdue", c.Loan.Overdue)
}
