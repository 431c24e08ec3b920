package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/api/models"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/events"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/logging"
)

func bufferedLogEntries() []events.LogEntryEvent {
	buffer := logging.GetBuffer()
	if buffer == nil {
		return nil
	}
	entries := buffer.ReadAll()
	out := make([]events.LogEntryEvent, len(entries))
	for i, entry := range entries {
		out[i] = events.LogEntryEvent{
			Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
			Level:      entry.Level,
			Module:     entry.Module,
			Message:    entry.Message,
			Attributes: entry.Attributes,
		}
	}
	return out
}

// registerLogRoutes registers log history and streaming endpoints.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Logs",
		Description: "Get recent log entries from the in-memory ring buffer",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.LogsResponse, error) {
		entries := bufferedLogEntries()
		return &models.LogsResponse{
			Body: models.LogListData{
				Entries: entries,
				Count:   len(entries),
			},
		}, nil
	})

	// SSE endpoint for log streaming
	sse.Register(s.api, huma.Operation{
		OperationID: "logs-stream",
		Method:      http.MethodGet,
		Path:        "/api/logs/stream",
		Summary:     "Log Stream",
		Description: "Real-time log streaming via Server-Sent Events. Sends historical logs first, then streams new logs.",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"message": events.LogEntryEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		// Historical entries first so clients get context before the live tail
		for _, entry := range bufferedLogEntries() {
			if err := send.Data(entry); err != nil {
				return
			}
		}

		eventCh := make(chan any, 100) // Larger buffer for logs

		unsubscribe := events.SubscribeToChannel[events.LogEntryEvent](s.eventBus, eventCh)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
