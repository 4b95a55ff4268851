package main

import (
	"math/rand"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Zilix-77/woddle/game"
	"github.com/Zilix-77/woddle/shared/configs"
	"github.com/Zilix-77/woddle/shared/logger"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	godotenv.Load()
	logger.Setup()

	env := configs.Load()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	allowedOrigins := strings.Split(env.AllowedOrigins, ",")

	r := CreateServer(allowedOrigins)

	tickerGen := game.NewTickerGen()
	lobby := game.NewLobby(&tickerGen, func(id string) game.Room {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return game.NewRoom(id, game.NewRandomWordPicker(rng), rng)
	})

	lobbyStarted := make(chan struct{})
	go lobby.LobbyActor(lobbyStarted)
	<-lobbyStarted

	gameHandler := game.NewGameHandler(lobby)
	{
		gameGroup := r.Group("/game")
		gameGroup.GET("/ws", gameHandler.JoinGameHandler)
	}

	log.Info().Str("addr", env.ListenAddr).Msg("server listening")
	if err := r.Run(env.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
