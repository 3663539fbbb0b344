// Package bootstrap wires the configured adapters into a runnable server.
package bootstrap

import (
	"fmt"
	nethttp "net/http"

	zlog "github.com/rs/zerolog/log"

	"github.com/rlunar/ionize/internal/config"
	"github.com/rlunar/ionize/internal/connect"
	"github.com/rlunar/ionize/internal/form"
	"github.com/rlunar/ionize/internal/infrastructure/db/postgres"
	infraemail "github.com/rlunar/ionize/internal/infrastructure/email"
	"github.com/rlunar/ionize/internal/infrastructure/memory"
	"github.com/rlunar/ionize/internal/infrastructure/messaging/rabbitmq"
	infraredis "github.com/rlunar/ionize/internal/infrastructure/redis"
	"github.com/rlunar/ionize/internal/lang"
	"github.com/rlunar/ionize/internal/notify"
	"github.com/rlunar/ionize/internal/settings"
	transport "github.com/rlunar/ionize/internal/transport/http"
)

// NewServer builds the HTTP server and returns a cleanup function for the
// acquired resources.
func NewServer() (*nethttp.Server, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// user store
	var repo connect.UserRepo
	if cfg.DBAddr != "" {
		db, err := postgres.Open(cfg.DBAddr)
		if err != nil {
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = db.Close() })
		repo = postgres.NewUserRepo(db)
		zlog.Info().Msg("postgres user store")
	} else {
		repo = memory.NewUserRepo()
		zlog.Info().Msg("in-memory user store")
	}

	// sessions
	var sessions connect.SessionStore
	if cfg.RedisAddr != "" {
		rdb := infraredis.NewClient(cfg.RedisAddr)
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		sessions = infraredis.NewSessionStore(rdb)
		zlog.Info().Str("addr", cfg.RedisAddr).Msg("redis session store")
	} else {
		sessions = memory.NewSessionStore()
		zlog.Info().Msg("in-memory session store")
	}

	// email transport
	var mailer notify.Mailer
	switch cfg.EmailSender {
	case "smtp":
		mailer = infraemail.NewSMTPMailer(infraemail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Timeout:  cfg.SMTPTimeout,
		}, zlog.Logger)
	case "queue":
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = pub.Close() })
		mailer = pub
	case "fake":
		mailer = infraemail.NewFakeMailer(zlog.Logger)
	default:
		cleanup()
		return nil, nil, fmt.Errorf("unsupported email sender: %s", cfg.EmailSender)
	}

	site := settings.NewMemory(map[string]string{
		settings.KeySiteEmail: cfg.SiteEmail,
		settings.KeySiteTitle: cfg.SiteTitle,
	})
	translator := lang.New(nil)
	forms := form.NewRegistry(nil)

	validator, err := form.NewValidator(forms)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	account := connect.NewService(repo, cfg.Secret, zlog.Logger)
	dispatcher := notify.NewDispatcher(forms, notify.DefaultViews, site, translator, mailer, zlog.Logger)

	pages := transport.NewPageHandler(transport.PageDeps{
		Account:  account,
		Sessions: sessions,
		Forms:    forms,
		Valid:    validator,
		Notifier: dispatcher,
		Lang:     translator,
		Pages:    transport.DefaultPages,
		Cookies:  transport.NewCookieCodec(cfg.Secret, cfg.SessionTTL),
		TTL:      cfg.SessionTTL,
		Logger:   zlog.Logger,
	})

	srv := &nethttp.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      transport.NewRouter(pages),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return srv, cleanup, nil
}
