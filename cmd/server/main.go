package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	queuepublisher "github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/session"
	"github.com/iliyamo/movie-catalog/internal/view"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Sessions live in Redis; without it no one can log in, so fail fast.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis connection failed; sessions unavailable")
	}
	sessions := session.NewStore(rdb, cfg.SessionTTLHours)

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)

	e := echo.New()
	renderer, err := view.NewRenderer("web/templates/*.html")
	if err != nil {
		log.Fatalf("template parse failed: %v", err)
	}
	e.Renderer = renderer
	e.Static("/static", "web/static")

	authHandler := handler.NewAuthHandler(cfg, users, sessions)
	movieHandler := handler.NewMovieHandler(movies, sessions, queuepublisher.PublishCatalogChanged)

	router.RegisterRoutes(e)
	router.RegisterCatalog(e, authHandler, movieHandler, sessions, cfg.SessionTTLHours)

	// Background consumer mirrors published catalog events into a log
	// file. It reconnects on its own and never takes the server down.
	go func() {
		if err := queue.StartCatalogConsumer(); err != nil {
			log.Printf("catalog-consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
