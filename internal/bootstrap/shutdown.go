package bootstrap

import (
	"context"
	"log/slog"

	"github.com/vantail/collectroom/internal/server"
	"github.com/vantail/collectroom/internal/sse"
	"github.com/vantail/collectroom/internal/transfer"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server        *server.Server
	ExpirySweeper *transfer.ExpirySweeper
	SSEHub        *sse.Hub
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in order:
// 1. HTTP server (stop accepting new requests)
// 2. Expiry sweeper (finish the in-flight sweep)
// 3. SSE hub (drop remaining event streams)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.ExpirySweeper != nil {
		if err := components.ExpirySweeper.Stop(ctx); err != nil {
			slog.Error(LogMsgSweeperShutdownFailed, "error", err)
		}
	}

	if components.SSEHub != nil {
		components.SSEHub.Stop()
	}

	slog.Info(LogMsgServerStopped)
}
