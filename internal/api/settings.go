package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/api/models"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/events"
)

// registerSettingsRoutes registers stream settings endpoints
func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/api/settings",
		Summary:     "Settings",
		Description: "Get the current stream settings",
		Tags:        []string{"settings"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.SettingsResponse, error) {
		return &models.SettingsResponse{Body: s.settings.Get()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-settings",
		Method:      http.MethodPut,
		Path:        "/api/settings",
		Summary:     "Update Settings",
		Description: "Update stream settings. Omitted fields keep their current values. Changes apply to the next session start.",
		Tags:        []string{"settings"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, input *models.SettingsUpdateRequest) (*models.SettingsResponse, error) {
		merged := s.settings.Get().Merge(input.Body)
		if err := s.settings.Save(merged); err != nil {
			return nil, huma.Error500InternalServerError("Failed to persist settings", err)
		}

		if s.eventBus != nil {
			s.eventBus.Publish(events.SettingsUpdatedEvent{
				Settings:  merged,
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}

		return &models.SettingsResponse{Body: merged}, nil
	})
}
