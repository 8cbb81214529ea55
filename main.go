// Package main library loan API.
//
// @title           Library Loan API
// @version         1.0
// @description     Library loan service (catalog, borrow/return, document ingestion).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"libloan/app/echoServer"
	authctrl "libloan/app/echoServer/controller/auth"
	docctrl "libloan/app/echoServer/controller/document"
	loanctrl "libloan/app/echoServer/controller/loan"
	pubctrl "libloan/app/echoServer/controller/publication"
	statsctrl "libloan/app/echoServer/controller/stats"
	"libloan/app/echoServer/validation"
	"libloan/config"
	borrowrepo "libloan/repository/borrow"
	docrepo "libloan/repository/document"
	"libloan/repository/filestore"
	pubrepo "libloan/repository/publication"
	translaterepo "libloan/repository/translate"
	userrepo "libloan/repository/user"
	authsvc "libloan/service/auth"
	ingestsvc "libloan/service/ingest"
	loansvc "libloan/service/loan"
	pubsvc "libloan/service/publication"
	"libloan/util/database"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// file store
	store, err := filestore.New(cfg.UploadDir)
	if err != nil {
		log.Error("file store init failed", "err", err, "dir", cfg.UploadDir)
		os.Exit(1)
	}

	// repos
	ur := userrepo.New(db)
	pr := pubrepo.New(db)
	br := borrowrepo.New(db)
	dr := docrepo.New(db)
	tr := translaterepo.NewHTTP(cfg.TranslateURL, cfg.TranslateAPIKey)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	ps := pubsvc.New(pr, ur)
	ls := loansvc.New(db, br, pr, cfg)
	is := ingestsvc.New(store, ingestsvc.DefaultExtractors(), tr, dr, cfg)

	// controllers
	authC := &authctrl.Controller{Svc: as, Log: log}
	pubC := &pubctrl.Controller{Svc: ps, Log: log}
	loanC := &loanctrl.Controller{Svc: ls, Log: log}
	docC := &docctrl.Controller{Svc: is, Log: log}
	statsC := &statsctrl.Controller{Svc: ps, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Publication: pubC,
		Loan:        loanC,
		Document:    docC,
		Stats:       statsC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
