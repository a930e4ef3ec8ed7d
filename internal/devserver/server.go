// Package devserver is a local stand-in for the remote roadmap service. It
// implements the same REST surface and response envelope so the client layer
// can be developed and tested without the production backend.
package devserver

import (
  "net/http"
  "time"
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/roadmap-client/internal/logger"
  "github.com/yungbote/roadmap-client/internal/utils"
)

type Server struct {
  log       *logger.Logger
  store     *Store
  jwtSecret string
  tokenTTL  time.Duration
}

func NewServer(log *logger.Logger, store *Store) *Server {
  serverLog := log.With("service", "DevServer")
  jwtSecret := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  tokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 86400, log)
  return &Server{
    log:       serverLog,
    store:     store,
    jwtSecret: jwtSecret,
    tokenTTL:  time.Duration(tokenTTLSeconds) * time.Second,
  }
}

func (s *Server) Handler() http.Handler {
  gin.SetMode(gin.ReleaseMode)
  router := gin.New()
  router.Use(gin.Recovery())
  router.Use(s.requestLogger())
  router.Use(cors.New(cors.Config{
    AllowOrigins:     []string{"http://localhost:3000"},
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type"},
    AllowCredentials: true,
    MaxAge:           12 * time.Hour,
  }))

  router.GET("/health", func(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"status": "ok"})
  })

  auth := router.Group("/api/auth")
  {
    auth.POST("/register", s.register)
    auth.POST("/login", s.login)
    auth.GET("/me", s.requireAuth(), s.me)
  }

  users := router.Group("/api/users", s.requireAuth())
  {
    users.PUT("/profile", s.updateProfile)
  }

  roadmaps := router.Group("/api/roadmaps", s.requireAuth())
  {
    roadmaps.GET("", s.getRoadmap)
    roadmaps.POST("", s.createRoadmap)
    roadmaps.DELETE("", s.deleteRoadmap)
    roadmaps.GET("/current-week", s.getCurrentWeek)
    roadmaps.PUT("/tasks/:weekId/:taskId", s.updateTask)
  }

  return router
}

func (s *Server) Run(addr string) error {
  s.log.Info("Dev server listening", "addr", addr)
  srv := &http.Server{
    Addr:              addr,
    Handler:           s.Handler(),
    ReadHeaderTimeout: 10 * time.Second,
  }
  return srv.ListenAndServe()
}

func (s *Server) requestLogger() gin.HandlerFunc {
  return func(c *gin.Context) {
    start := time.Now()
    c.Next()
    s.log.Debug("Request",
      "method", c.Request.Method,
      "path", c.Request.URL.Path,
      "status", c.Writer.Status(),
      "duration_ms", time.Since(start).Milliseconds(),
    )
  }
}
