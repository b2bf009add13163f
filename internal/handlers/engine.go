package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/qrnglabs/quantum-rng/internal/config"
	"github.com/qrnglabs/quantum-rng/internal/models"
	"github.com/qrnglabs/quantum-rng/qrng"
)

// The engine Context is a single-writer resource; the service owns one
// shared instance and serializes every call through engineMu. That
// keeps locking policy at the boundary the engine pushes it to.
var (
	engineMu sync.Mutex
	engine   *qrng.Context
)

// InitEngine creates the shared engine Context. A nil/empty seed pulls
// initial entropy from the OS.
func InitEngine(seed []byte) error {
	ctx, err := qrng.New(seed)
	if err != nil {
		return err
	}
	engineMu.Lock()
	engine = ctx
	engineMu.Unlock()
	return nil
}

// withEngine runs fn against the shared Context under the mutex.
func withEngine(fn func(ctx *qrng.Context) error) error {
	engineMu.Lock()
	defer engineMu.Unlock()
	if engine == nil {
		return qrng.ErrNilContext
	}
	return fn(engine)
}

// respondEngineError maps each engine error kind to a distinct, stable
// status and structured body.
func respondEngineError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, qrng.ErrInvalidLength),
		errors.Is(err, qrng.ErrInvalidRange),
		errors.Is(err, qrng.ErrInvalidSeed),
		errors.Is(err, qrng.ErrBufferMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, qrng.ErrNilContext),
		errors.Is(err, qrng.ErrEntropySource),
		errors.Is(err, qrng.ErrCounterExhausted):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": qrng.Code(err)})
}

// recordEvent appends a best-effort audit row when the audit store is
// configured. Audit failures never fail the randomness request.
func recordEvent(c *gin.Context, kind string, length int, estimate float64) {
	if !config.AuditEnabled() {
		return
	}
	event := models.DrawEvent{
		Kind:            kind,
		Length:          length,
		ClientIP:        c.ClientIP(),
		EntropyEstimate: estimate,
	}
	if err := config.DB.Create(&event).Error; err != nil {
		log.Printf("audit: failed to record %s event: %v", kind, err)
	}
}
