package main

import (
	"encoding/hex"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/qrnglabs/quantum-rng/internal/auth"
	"github.com/qrnglabs/quantum-rng/internal/config"
	"github.com/qrnglabs/quantum-rng/internal/handlers"
	"github.com/qrnglabs/quantum-rng/internal/models"
)

func main() {
	// Load config & init
	appCfg := config.Load()
	if db := config.InitDB(appCfg); db != nil {
		models.Migrate(db)
		models.BootstrapAdmin(db, appCfg.AdminUsername, appCfg.AdminPassword)
	}
	auth.Init(appCfg.JWTSecret)

	// Seed the engine: OS entropy by default, deterministic hex seed
	// when QRNG_BOOT_SEED is set (replay/testing deployments).
	var seed []byte
	if appCfg.BootSeedHex != "" {
		var err error
		if seed, err = hex.DecodeString(appCfg.BootSeedHex); err != nil {
			log.Fatalf("QRNG_BOOT_SEED is not valid hex: %v", err)
		}
	}
	if err := handlers.InitEngine(seed); err != nil {
		log.Fatalf("engine init failed: %v", err)
	}

	// Setup router
	r := gin.Default()
	r.Use(config.CORSMiddleware())

	api := r.Group("/api/v1")
	{
		// Randomness surface
		random := api.Group("/random")
		{
			random.GET("/bytes", handlers.GetBytes)
			random.GET("/uint64", handlers.GetUint64)
			random.GET("/double", handlers.GetDouble)
			random.GET("/int32", handlers.GetRange32)
			random.GET("/uint64-range", handlers.GetRange64)
			random.POST("/entangle", handlers.Entangle)
			random.POST("/measure", handlers.Measure)
		}

		// Engine introspection
		api.GET("/entropy", handlers.GetEntropy)
		api.GET("/status", handlers.GetStatus)
		api.GET("/version", handlers.GetVersion)

		// Auth
		api.POST("/admin/login", handlers.Login)

		// Privileged surface
		api.POST("/admin/reseed",
			handlers.RequireAuth(models.RoleAdmin, models.RoleOperator),
			handlers.Reseed)
		api.GET("/admin/events",
			handlers.RequireAuth(models.RoleAdmin, models.RoleAuditor),
			handlers.ListEvents)

		// Admin users (CRUD)
		users := api.Group("/admin/users", handlers.RequireAuth(models.RoleAdmin))
		{
			users.POST("", handlers.CreateUser)
			users.GET("", handlers.ListUsers)
			users.PUT("/:id", handlers.UpdateUser)
			users.DELETE("/:id", handlers.DeleteUser)
		}
	}

	// Start the HTTP server (port from env or default)
	if err := r.Run(":" + appCfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
