package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/progress-bot/internal/bot"
	"github.com/yukikurage/progress-bot/internal/config"
	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/handlers"
	"github.com/yukikurage/progress-bot/internal/services"
)

func serveCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat webhook and the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			gin.SetMode(cfg.GinMode)

			store, closeStore, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					log.Printf("Failed to close store: %v", err)
				}
			}()

			sessionStore, err := newSessionStore(cfg)
			if err != nil {
				return err
			}

			var ai *services.AIService
			if cfg.OpenAIAPIKey != "" {
				ai = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
			} else {
				log.Println("OPENAI_API_KEY is not set, free-text messages will not be understood")
			}

			reports := services.NewReportService(store, newSender(cfg))

			r := gin.Default()
			r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))
			handlers.Routes{
				Webhook:       handlers.NewWebhookHandler(bot.New(store, ai, reports)),
				Admin:         handlers.NewAdminHandler(services.NewAdminService(store, cfg.AdminPasswordHash), services.NewEntityService(store), reports),
				Users:         services.NewUserService(store),
				WebhookSecret: cfg.WebhookSecret,
			}.Register(r)

			log.Printf("Server starting on %s", cfg.ListenAddr)
			return r.Run(cfg.ListenAddr)
		},
	}
}

// newSessionStore backs admin sessions with Redis or signed cookies.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case "redis":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	case "", "cookie":
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: 2, // Lax
	})
	return store, nil
}
