package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Cfg *AppConfig

// AppConfig holds all environment variables.
type AppConfig struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBName      string
	DBPassword  string
	DBSSLMode   string
	JWTSecret   string
	FrontendURL string

	// MaxRequestBytes caps /random/bytes requests. This is API policy,
	// distinct from the engine's own 1 MiB hard limit.
	MaxRequestBytes int

	// BootSeedHex optionally seeds the engine deterministically at
	// startup (replay/testing); empty means OS entropy.
	BootSeedHex string

	// AdminUsername/AdminPassword bootstrap the first admin account
	// when the audit database is configured and no users exist.
	AdminUsername string
	AdminPassword string
}

// Load reads environment variables (and .env if present).
func Load() *AppConfig {
	_ = godotenv.Load()

	Cfg = &AppConfig{
		Port:          os.Getenv("PORT"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBUser:        os.Getenv("DB_USER"),
		DBName:        os.Getenv("DB_NAME"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBSSLMode:     os.Getenv("DB_SSLMODE"),
		JWTSecret:     os.Getenv("JWT_SECRET_KEY"),
		FrontendURL:   os.Getenv("FRONTEND_URL"),
		BootSeedHex:   os.Getenv("QRNG_BOOT_SEED"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if Cfg.Port == "" {
		Cfg.Port = "8080"
	}
	if Cfg.DBSSLMode == "" {
		Cfg.DBSSLMode = "disable"
	}
	Cfg.MaxRequestBytes = 1024
	if v := os.Getenv("QRNG_MAX_REQUEST_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			Cfg.MaxRequestBytes = n
		}
	}
	return Cfg
}

var DB *gorm.DB

// AuditEnabled reports whether an audit database is configured. The
// engine itself owns no persisted state (all generator state is
// in-memory); the database only stores admin accounts and served-draw
// audit rows.
func AuditEnabled() bool {
	return DB != nil
}

// InitDB connects to Postgres when DB_HOST is set; without it the
// service runs with auditing and admin accounts disabled.
func InitDB(c *AppConfig) *gorm.DB {
	if c.DBHost == "" {
		log.Println("DB_HOST not set; audit store and admin accounts disabled")
		return nil
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	DB = db
	return db
}

// CORSMiddleware allows the configured frontend origin, or all origins
// when none is configured.
func CORSMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if Cfg != nil && Cfg.FrontendURL != "" {
		cfg.AllowOrigins = []string{Cfg.FrontendURL}
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cors.New(cfg)
}
