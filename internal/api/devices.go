package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/api/models"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/events"
)

// registerDeviceRoutes registers camera enumeration endpoints
func (s *Server) registerDeviceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices",
		Summary:     "List Devices",
		Description: "List video capture devices available on this host",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, input *struct{}) (*models.DevicesResponse, error) {
		found, err := s.detector.FindDevices(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to enumerate devices", err)
		}

		if s.eventBus != nil {
			s.eventBus.Publish(events.DeviceDiscoveryEvent{
				Devices:   found,
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}

		return &models.DevicesResponse{
			Body: models.DeviceListData{
				Devices: found,
				Count:   len(found),
			},
		}, nil
	})
}
