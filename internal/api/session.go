package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Titan-Dynamics/WebcamRTSP/internal/api/models"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/session"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/supervisor"
)

// mapSessionError translates controller errors into HTTP errors
func mapSessionError(err error) error {
	var readyErr *session.ReadinessError
	if errors.As(err, &readyErr) {
		return huma.Error502BadGateway("Relay never became ready", err)
	}
	var launchErr *supervisor.LaunchError
	if errors.As(err, &launchErr) {
		return huma.Error502BadGateway("Process failed to launch", err)
	}
	return huma.Error500InternalServerError("Session operation failed", err)
}

// registerSessionRoutes registers session control endpoints
func (s *Server) registerSessionRoutes() {
	// Current session state
	huma.Register(s.api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/api/session",
		Summary:     "Session",
		Description: "Get the current streaming session state",
		Tags:        []string{"session"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.SessionResponse, error) {
		return &models.SessionResponse{Body: s.session.Snapshot()}, nil
	})

	// Start streaming
	huma.Register(s.api, huma.Operation{
		OperationID: "start-session",
		Method:      http.MethodPost,
		Path:        "/api/session/start",
		Summary:     "Start",
		Description: "Start the capture pipeline, bringing up the relay if needed",
		Tags:        []string{"session"},
		Security:    withAuth(),
		Errors:      []int{401, 502},
	}, func(ctx context.Context, input *struct{}) (*models.SessionResponse, error) {
		if err := s.session.Start(ctx); err != nil {
			return nil, mapSessionError(err)
		}
		return &models.SessionResponse{Body: s.session.Snapshot()}, nil
	})

	// Stop streaming
	huma.Register(s.api, huma.Operation{
		OperationID: "stop-session",
		Method:      http.MethodPost,
		Path:        "/api/session/stop",
		Summary:     "Stop",
		Description: "Stop the capture pipeline and tear down the relay if owned",
		Tags:        []string{"session"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct{}) (*models.SessionResponse, error) {
		s.session.Stop(ctx)
		return &models.SessionResponse{Body: s.session.Snapshot()}, nil
	})

	// Toggle streaming
	huma.Register(s.api, huma.Operation{
		OperationID: "toggle-session",
		Method:      http.MethodPost,
		Path:        "/api/session/toggle",
		Summary:     "Toggle",
		Description: "Start the session if idle, stop it if running",
		Tags:        []string{"session"},
		Security:    withAuth(),
		Errors:      []int{401, 502},
	}, func(ctx context.Context, input *struct{}) (*models.SessionResponse, error) {
		if err := s.session.Toggle(ctx); err != nil {
			return nil, mapSessionError(err)
		}
		return &models.SessionResponse{Body: s.session.Snapshot()}, nil
	})
}
