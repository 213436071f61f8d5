package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/config"
)

const (
	clientTokenCookie = "ct"
	sessionName       = "HuddleSessions"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware tags the browser with a long lived token, kept in the
// cookie session as well as in a plain cookie for the static client.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		token, _ := sess.Get(clientTokenCookie).(string)
		if token == "" {
			token, _ = c.Cookie(clientTokenCookie)
		}
		if token == "" {
			token = genClientToken()
			c.SetCookie(clientTokenCookie, token, 3600*24*7, "/", "", false, true)
		}
		if sess.Get(clientTokenCookie) != token {
			sess.Set(clientTokenCookie, token)
			if err := sess.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, ctrl *signal.SignalWSController, api *API) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/healthz", api.Health)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	g := r.Group("/api")

	g.GET("/ws/signal", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client_token", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})
	api.Register(g)

	return r
}
