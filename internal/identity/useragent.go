package identity

import (
	"strings"

	ua "github.com/mileusna/useragent"

	"github.com/driftdrop/driftdrop/internal/proto"
)

// FromUserAgent builds a peer's DisplayIdentity from its id and the
// User-Agent header of the upgrade request.
func FromUserAgent(id, rawUA string) proto.DisplayIdentity {
	dev := parseUserAgent(rawUA)
	return proto.DisplayIdentity{
		DisplayName: DeriveDisplayName(id),
		DeviceName:  deviceName(dev),
		Device:      dev,
	}
}

// parseUserAgent extracts a device descriptor. Unknown fields stay empty
// and the device type defaults to desktop.
func parseUserAgent(rawUA string) proto.Device {
	parsed := ua.Parse(rawUA)

	devType := "desktop"
	switch {
	case parsed.Mobile:
		devType = "mobile"
	case parsed.Tablet:
		devType = "tablet"
	}

	return proto.Device{
		Type:    devType,
		Model:   parsed.Device,
		OS:      shortenOS(parsed.OS),
		Browser: parsed.Name,
	}
}

// deviceName combines the OS with the device model or browser name.
// A UA that yields none of the three reads as "Unknown Device".
func deviceName(dev proto.Device) string {
	name := dev.OS
	if name != "" {
		name += " "
	}
	if dev.Model != "" {
		name += dev.Model
	} else {
		name += dev.Browser
	}
	if strings.TrimSpace(name) == "" {
		return "Unknown Device"
	}
	return strings.TrimSpace(name)
}

func shortenOS(os string) string {
	// Both spellings show up depending on the UA vintage.
	if os == "Mac OS" || os == "macOS" {
		return "Mac"
	}
	return os
}
