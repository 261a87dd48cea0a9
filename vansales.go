//go:build !cli
// +build !cli

package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"vansales.GO/api"
	_ "vansales.GO/api/vaninventory"
	"vansales.GO/config"
	"vansales.GO/core/auth"
	_ "vansales.GO/custom"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()

	config.InitRedis()
	redisStatus := "Redis not configured, caching falls back to in-process cache."
	if config.RedisClient != nil {
		if err := config.RedisClient.Ping(config.RedisCtx()).Err(); err == nil {
			redisStatus = "Redis connection successful."
		} else {
			config.RedisClient = nil
			redisStatus = "Redis configured but not reachable, falling back to in-process cache."
		}
	}
	log.Println(redisStatus)

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	sqldb, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get DB instance: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	log.Println("Database connection successful.")

	e := echo.New()
	e.Validator = api.NewRequestValidator()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware(db))
	api.ApplyModules(apiGroup, db)
	api.ApplyRoutes(e, db)

	port := config.Get().Port
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on :%s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
