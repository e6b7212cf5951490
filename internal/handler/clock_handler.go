package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pedagolab/parcours-backend/internal/middleware"
	"github.com/pedagolab/parcours-backend/internal/service"
	ws "github.com/pedagolab/parcours-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ClockHandler streams attempt countdowns over WebSocket.
type ClockHandler struct {
	attemptService *service.AttemptService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewClockHandler creates a new ClockHandler.
func NewClockHandler(attemptService *service.AttemptService, log zerolog.Logger, allowedOrigins []string) *ClockHandler {
	return &ClockHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "clock_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/v1/learner/attempts/:attempt_id/clock
// Streams one countdown update per second until the attempt finalizes or
// the client disconnects.
func (h *ClockHandler) Stream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attempt ID"})
		return
	}

	remaining, phase, err := h.attemptService.Clock(attemptID, claims.LearnerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	clockLog := h.log.With().
		Int("learner_id", claims.LearnerID).
		Str("attempt_id", attemptID.String()).
		Logger()
	clockLog.Info().Msg("Clock stream connected")

	if err := ws.WriteTyped(conn, ws.TickResponse{
		Event:            ws.EventTick,
		RemainingSeconds: remaining,
		Phase:            string(phase),
	}); err != nil {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		remaining, phase, err = h.attemptService.Clock(attemptID, claims.LearnerID)
		if err != nil {
			// Finalized, abandoned, or evicted: the countdown is over.
			if score, ok := h.finalScore(attemptID, claims.LearnerID); ok {
				ws.WriteTyped(conn, ws.FinalizedResponse{Event: ws.EventFinalized, Score: score})
			}
			clockLog.Debug().Msg("Clock stream closed")
			return
		}

		msg := ws.TickResponse{
			Event:            ws.EventTick,
			RemainingSeconds: remaining,
			Phase:            string(phase),
		}
		if err := ws.WriteTyped(conn, msg); err != nil {
			clockLog.Debug().Msg("Client disconnected")
			return
		}

		if remaining <= 0 {
			if res, ok := h.finalScore(attemptID, claims.LearnerID); ok {
				ws.WriteTyped(conn, ws.FinalizedResponse{Event: ws.EventFinalized, Score: res})
			}
			return
		}
	}
}

// finalScore reads the aggregate score once the attempt has finalized.
func (h *ClockHandler) finalScore(attemptID uuid.UUID, learnerID int) (int, bool) {
	state, err := h.attemptService.State(attemptID, learnerID)
	if err != nil || state.Result == nil {
		return 0, false
	}
	return state.Result.Score, true
}
