package models

import "runtime"

// DeviceType is the numeric device code sent with the token exchange.
// Only the CLI codes are used by this client; the full table lives in the
// Bitwarden API.
type DeviceType int

const (
	DeviceTypeWindowsCLI DeviceType = 23
	DeviceTypeMacOsCLI   DeviceType = 24
	DeviceTypeLinuxCLI   DeviceType = 25
)

// DeviceTypeForOS returns the CLI device code for the running platform.
func DeviceTypeForOS() DeviceType {
	switch runtime.GOOS {
	case "windows":
		return DeviceTypeWindowsCLI
	case "darwin":
		return DeviceTypeMacOsCLI
	default:
		return DeviceTypeLinuxCLI
	}
}

// DeviceInfo identifies this installation to the identity service.
// The identifier is a UUID that stays stable for the process and is
// persisted in the local state store across runs.
type DeviceInfo struct {
	Type       DeviceType
	Identifier string
	Name       string
}
