package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting user's ID in the request context.
const actorIDKey = contextKey("actorID")

// actorHeader carries the acting user's identifier on incoming requests.
const actorHeader = "X-Actor-ID"

// defaultActor is recorded in audit fields when no actor header is present,
// for example on scheduled jobs or local tooling.
const defaultActor = "system"

// ActorMiddleware creates a Gin middleware handler that resolves the acting
// user from the request headers and stores it in the request context.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(actorHeader)
		if actorID == "" {
			actorID = defaultActor
		}

		ctxWithActor := context.WithValue(c.Request.Context(), actorIDKey, actorID)

		// Enrich the request logger so every log line carries the actor
		enrichedLogger := GetLoggerFromCtx(ctxWithActor).With(slog.String("actor_id", actorID))
		ctxWithActor = context.WithValue(ctxWithActor, loggerCtxKey, enrichedLogger)

		c.Request = c.Request.WithContext(ctxWithActor)
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user ID from the context.
// It returns the actor ID and a boolean indicating if it was found.
func GetActorFromContext(ctx context.Context) (string, bool) {
	actorVal := ctx.Value(actorIDKey)
	if actorVal == nil {
		return "", false
	}

	actorID, ok := actorVal.(string)
	if !ok || actorID == "" {
		return "", false
	}
	return actorID, true
}
