package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"campuskart/internal/config"
	"campuskart/internal/models"
	"campuskart/internal/payment"
	"campuskart/internal/storage"

	"github.com/alexedwards/scs/mongodbstore"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type application struct {
	logger  zerolog.Logger
	config  config.Config
	db      *models.MongoDB
	session *scs.SessionManager
	images  *storage.BlobStore
	gateway *payment.Client
	oauth   *oauth2.Config
}

func main() {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, database, err := models.Open(ctx, cfg.MongoURI, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to database")
	}
	logger.Info().Str("database", cfg.Database).Msg("connected to database")

	images, err := storage.New(database, "/api/v1/images")
	if err != nil {
		logger.Fatal().Err(err).Msg("opening blob store")
	}

	session := scs.New()
	session.Store = mongodbstore.New(database)
	session.Lifetime = cfg.SessionLifetime
	session.Cookie.HttpOnly = cfg.Production()
	session.Cookie.Secure = cfg.Production()
	if cfg.Production() {
		session.Cookie.SameSite = http.SameSiteNoneMode
	}

	app := &application{
		logger:  logger,
		config:  cfg,
		db:      db,
		session: session,
		images:  images,
		gateway: payment.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}

	srv := &http.Server{
		Addr:     cfg.Addr,
		Handler:  app.routes(),
		ErrorLog: log.New(logger, "", 0),
	}

	logger.Info().Str("addr", cfg.Addr).Str("env", cfg.Environment).Msg("starting server")
	err = srv.ListenAndServe()
	logger.Fatal().Err(err).Msg("server stopped")
}
