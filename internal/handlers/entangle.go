package handlers

import (
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qrnglabs/quantum-rng/qrng"
)

// entangleRequest carries the two caller-owned auxiliary state buffers
// as hex strings. They must decode to equal lengths.
type entangleRequest struct {
	StateA string `json:"state_a" binding:"required"`
	StateB string `json:"state_b" binding:"required"`
}

// Entangle handles POST /api/v1/random/entangle: couples the two
// buffers with fresh engine entropy and returns the mutated pair.
func Entangle(c *gin.Context) {
	var req entangleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	bufA, err := hex.DecodeString(req.StateA)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state_a is not valid hex"})
		return
	}
	bufB, err := hex.DecodeString(req.StateB)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state_b is not valid hex"})
		return
	}

	var estimate float64
	opErr := withEngine(func(ctx *qrng.Context) error {
		if err := ctx.EntangleStates(bufA, bufB); err != nil {
			return err
		}
		estimate = ctx.EntropyEstimate()
		return nil
	})
	if opErr != nil {
		respondEngineError(c, opErr)
		return
	}

	recordEvent(c, "entangle", len(bufA), estimate)
	c.JSON(http.StatusOK, gin.H{
		"state_a": hex.EncodeToString(bufA),
		"state_b": hex.EncodeToString(bufB),
	})
}

// measureRequest carries the buffer to collapse, as hex.
type measureRequest struct {
	State string `json:"state" binding:"required"`
}

// Measure handles POST /api/v1/random/measure: irreversibly collapses
// the buffer with fresh engine entropy and returns the result.
func Measure(c *gin.Context) {
	var req measureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	buf, err := hex.DecodeString(req.State)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state is not valid hex"})
		return
	}

	var estimate float64
	opErr := withEngine(func(ctx *qrng.Context) error {
		if err := ctx.MeasureState(buf); err != nil {
			return err
		}
		estimate = ctx.EntropyEstimate()
		return nil
	})
	if opErr != nil {
		respondEngineError(c, opErr)
		return
	}

	recordEvent(c, "measure", len(buf), estimate)
	c.JSON(http.StatusOK, gin.H{"state": hex.EncodeToString(buf)})
}
