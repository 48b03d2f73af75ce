package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/rlemos/roombook/internal/database"
	"github.com/rlemos/roombook/internal/handlers"
	"github.com/rlemos/roombook/internal/mailer"
	"github.com/rlemos/roombook/internal/models"
	"github.com/rlemos/roombook/internal/notify"
	"github.com/rlemos/roombook/internal/services"
	"github.com/rlemos/roombook/pkg/auth"
)

type Server struct {
	Router   *gin.Engine
	DB       *database.Database
	Redis    *redis.Client
	Sessions *auth.SessionManager
}

func New() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			logrus.Info(".env not found, using environment variables")
		}
	}

	db := &database.Database{}
	if err := db.Connect(); err != nil {
		logrus.Fatalf("Postgres connect failed: %v", err)
	}
	seedDefaultRooms(db)

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		logrus.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Redis connect failed: %v", err)
	}

	sessions := auth.NewSessionManager(os.Getenv("SESSION_SECRET"), 24*time.Hour, rdb)

	notifier := notify.NewEmailNotifier(mailer.NewFromEnv())
	bookings := services.NewBookingService(db, notifier)

	authH := handlers.NewAuthHandler(db, sessions)
	userH := handlers.NewUserHandler(db)
	roomH := handlers.NewRoomHandler(db)
	meetingH := handlers.NewMeetingHandler(bookings)

	router := gin.Default()
	router.Use(corsMiddleware())
	APIEndpoints(router, sessions, authH, userH, roomH, meetingH)
	serveStatic(router)

	return &Server{
		Router:   router,
		DB:       db,
		Redis:    rdb,
		Sessions: sessions,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.Infof("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		logrus.Fatalf("Server run error: %v", err)
	}
}

// seedDefaultRooms bootstraps a fresh database with a starting set of
// rooms so the app is usable before anyone creates one.
func seedDefaultRooms(db *database.Database) {
	count, err := db.CountRooms()
	if err != nil || count > 0 {
		return
	}

	for _, name := range []string{"Sala de Reunião", "Refeitório", "Sala de Treinamento"} {
		room := &models.Room{Name: name, Capacity: 10, Active: true}
		if err := db.CreateRoom(room); err != nil {
			logrus.WithError(err).Warnf("failed to seed room %q", name)
		}
	}
	logrus.Info("default rooms created")
}

// serveStatic mounts the SPA when STATIC_DIR is set: real files are served
// as-is, everything else falls back to index.html.
func serveStatic(router *gin.Engine) {
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		return
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		path := filepath.Join(staticDir, filepath.Clean(c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", c.GetHeader("Origin"))
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
