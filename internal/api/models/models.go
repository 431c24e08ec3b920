package models

import (
	"github.com/Titan-Dynamics/WebcamRTSP/internal/devices"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/events"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/session"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/settings"
	"github.com/Titan-Dynamics/WebcamRTSP/internal/version"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Session models
type SessionResponse struct {
	Body session.Snapshot
}

// Device models
type DeviceListData struct {
	Devices []devices.Device `json:"devices" doc:"Cameras found on this host"`
	Count   int              `json:"count" example:"1" doc:"Number of cameras"`
}

type DevicesResponse struct {
	Body DeviceListData
}

// Settings models
type SettingsResponse struct {
	Body settings.Settings
}

type SettingsUpdateRequest struct {
	Body settings.Settings
}

// Log models
type LogListData struct {
	Entries []events.LogEntryEvent `json:"entries" doc:"Buffered log entries, oldest first"`
	Count   int                    `json:"count" example:"42" doc:"Number of entries"`
}

type LogsResponse struct {
	Body LogListData
}

// Version models
type VersionResponse struct {
	Body version.Info
}
