package handlers

import (
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qrnglabs/quantum-rng/internal/config"
	"github.com/qrnglabs/quantum-rng/internal/models"
	"github.com/qrnglabs/quantum-rng/qrng"
)

// reseedRequest carries externally supplied seed material as hex. An
// empty seed is accepted and is a no-op (engine contract).
type reseedRequest struct {
	SeedHex string `json:"seed_hex"`
}

// Reseed handles POST /api/v1/admin/reseed: folds caller-supplied seed
// material into the engine state. Reseeding supplements entropy; it
// never resets the stream to a known point.
func Reseed(c *gin.Context) {
	var req reseedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	seed, err := hex.DecodeString(req.SeedHex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seed_hex is not valid hex"})
		return
	}

	var (
		estimate float64
		epoch    uint64
	)
	opErr := withEngine(func(ctx *qrng.Context) error {
		if err := ctx.Reseed(seed); err != nil {
			return err
		}
		estimate = ctx.EntropyEstimate()
		epoch = ctx.Epoch()
		return nil
	})
	if opErr != nil {
		respondEngineError(c, opErr)
		return
	}

	recordEvent(c, "reseed", 0, estimate)
	c.JSON(http.StatusOK, gin.H{
		"message":    "Reseeded",
		"seed_bytes": len(seed),
		"seed_epoch": strconv.FormatUint(epoch, 10),
	})
}

// ListEvents handles GET /api/v1/admin/events?limit=N: the most recent
// audit rows, newest first.
func ListEvents(c *gin.Context) {
	if !requireDB(c) {
		return
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
			return
		}
		limit = n
	}

	var events []models.DrawEvent
	if err := config.DB.Order("created_at desc").Limit(limit).Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list events: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}
