package handlers

import (
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qrnglabs/quantum-rng/internal/config"
	"github.com/qrnglabs/quantum-rng/qrng"
)

// GetBytes handles GET /api/v1/random/bytes?length=N.
// The API caps N at config.Cfg.MaxRequestBytes (default 1024) as
// service policy; the engine's own limit is far higher.
func GetBytes(c *gin.Context) {
	lengthStr := c.DefaultQuery("length", "32")
	length, err := strconv.Atoi(lengthStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid length parameter: " + lengthStr})
		return
	}
	if length < 1 || length > config.Cfg.MaxRequestBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "length must be between 1 and " + strconv.Itoa(config.Cfg.MaxRequestBytes),
			"code":  qrng.Code(qrng.ErrInvalidLength),
		})
		return
	}

	var buf []byte
	var estimate float64
	opErr := withEngine(func(ctx *qrng.Context) error {
		var err error
		if buf, err = ctx.Bytes(length); err != nil {
			return err
		}
		estimate = ctx.EntropyEstimate()
		return nil
	})
	if opErr != nil {
		respondEngineError(c, opErr)
		return
	}

	recordEvent(c, "bytes", length, estimate)
	c.JSON(http.StatusOK, gin.H{
		"bytes":  hex.EncodeToString(buf),
		"length": length,
	})
}

// GetUint64 handles GET /api/v1/random/uint64. The value is serialized
// as a decimal string: JSON numbers lose precision past 2^53.
func GetUint64(c *gin.Context) {
	var value uint64
	var estimate float64
	opErr := withEngine(func(ctx *qrng.Context) error {
		var err error
		if value, err = ctx.Uint64(); err != nil {
			return err
		}
		estimate = ctx.EntropyEstimate()
		return nil
	})
	if opErr != nil {
		respondEngineError(c, opErr)
		return
	}

	recordEvent(c, "uint64", 8, estimate)
	c.JSON(http.StatusOK, gin.H{"value": strconv.FormatUint(value, 10)})
}

// GetDouble handles GET /api/v1/random/double, returning a value in
// [0, 1) with full 52-bit precision.
func GetDouble(c *gin.Context) {
	var value float64
	var estimate float64
	opErr := withEngine(func(ctx *qrng.Context) error {
		var err error
		if value, err = ctx.Float64(); err != nil {
			return err
		}
		estimate = ctx.EntropyEstimate()
		return nil
	})
	if opErr != nil {
		respondEngineError(c, opErr)
		return
	}

	recordEvent(c, "double", 8, estimate)
	c.JSON(http.StatusOK, gin.H{"value": value})
}

// GetRange32 handles GET /api/v1/random/int32?min=&max= (inclusive).
func GetRange32(c *gin.Context) {
	min64, err := strconv.ParseInt(c.DefaultQuery("min", "0"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min parameter"})
		return
	}
	max64, err := strconv.ParseInt(c.DefaultQuery("max", "0"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max parameter"})
		return
	}

	var value int32
	var estimate float64
	opErr := withEngine(func(ctx *qrng.Context) error {
		var err error
		if value, err = ctx.Range32(int32(min64), int32(max64)); err != nil {
			return err
		}
		estimate = ctx.EntropyEstimate()
		return nil
	})
	if opErr != nil {
		respondEngineError(c, opErr)
		return
	}

	recordEvent(c, "range32", 4, estimate)
	c.JSON(http.StatusOK, gin.H{"value": value, "min": min64, "max": max64})
}

// GetRange64 handles GET /api/v1/random/uint64-range?min=&max=. Bounds
// and result travel as decimal strings for the same precision reason as
// GetUint64.
func GetRange64(c *gin.Context) {
	min64, err := strconv.ParseUint(c.DefaultQuery("min", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min parameter: must be an unsigned decimal string"})
		return
	}
	max64, err := strconv.ParseUint(c.DefaultQuery("max", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max parameter: must be an unsigned decimal string"})
		return
	}

	var value uint64
	var estimate float64
	opErr := withEngine(func(ctx *qrng.Context) error {
		var err error
		if value, err = ctx.Range64(min64, max64); err != nil {
			return err
		}
		estimate = ctx.EntropyEstimate()
		return nil
	})
	if opErr != nil {
		respondEngineError(c, opErr)
		return
	}

	recordEvent(c, "range64", 8, estimate)
	c.JSON(http.StatusOK, gin.H{
		"value": strconv.FormatUint(value, 10),
		"min":   strconv.FormatUint(min64, 10),
		"max":   strconv.FormatUint(max64, 10),
	})
}

// GetEntropy handles GET /api/v1/entropy. Reading the estimate never
// advances engine state.
func GetEntropy(c *gin.Context) {
	var estimate float64
	opErr := withEngine(func(ctx *qrng.Context) error {
		estimate = ctx.EntropyEstimate()
		return nil
	})
	if opErr != nil {
		respondEngineError(c, opErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entropy_estimate": estimate, "scale": "bits/byte", "max": 8.0})
}

// GetStatus handles GET /api/v1/status.
func GetStatus(c *gin.Context) {
	var (
		draws      uint64
		epoch      uint64
		estimate   float64
		createdAt  time.Time
		lastReseed time.Time
	)
	opErr := withEngine(func(ctx *qrng.Context) error {
		draws = ctx.DrawCount()
		epoch = ctx.Epoch()
		estimate = ctx.EntropyEstimate()
		createdAt = ctx.CreatedAt()
		lastReseed = ctx.LastReseed()
		return nil
	})
	if opErr != nil {
		respondEngineError(c, opErr)
		return
	}

	resp := gin.H{
		"version":          qrng.Version(),
		"draw_count":       strconv.FormatUint(draws, 10),
		"seed_epoch":       strconv.FormatUint(epoch, 10),
		"entropy_estimate": estimate,
		"created_at":       createdAt,
		"audit_enabled":    config.AuditEnabled(),
	}
	if !lastReseed.IsZero() {
		resp["last_reseed"] = lastReseed
	}
	c.JSON(http.StatusOK, resp)
}

// GetVersion handles GET /api/v1/version.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": qrng.Version()})
}
