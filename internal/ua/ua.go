// internal/ua/ua.go
//
// User-Agent classification for submission logs.
//
// Context
// -------
// Form actions record who sent a submission: browser family, device class,
// and whether the client is a crawler.  Bots posting the contact form are the
// main spam signal, so IsBot is the field that matters most.  Only this file
// imports uasurfer; everything else sees the plain Info struct.
//
// Notes
// -----
// • Device is one of "Desktop", "Mobile", "Tablet", or "Other".
// • An empty header classifies as Browser "Unknown", Device "Other".
// • Oxford commas, two spaces after periods.
package ua

import (
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Info is the submitter fingerprint logged with each accepted form.
type Info struct {
	Browser string
	Device  string
	IsBot   bool
}

// Parse classifies a raw User-Agent header.
func Parse(raw string) Info {
	u := surfer.Parse(raw)
	return Info{
		Browser: browserName(u.Browser.Name),
		Device:  deviceClass(u.DeviceType),
		IsBot:   u.IsBot(),
	}
}

// browserName drops uasurfer's "Browser" prefix ("BrowserChrome" → "Chrome").
func browserName(n surfer.BrowserName) string {
	if n == surfer.BrowserUnknown {
		return "Unknown"
	}
	return strings.TrimPrefix(n.String(), "Browser")
}

func deviceClass(d surfer.DeviceType) string {
	switch d {
	case surfer.DeviceComputer:
		return "Desktop"
	case surfer.DeviceTablet:
		return "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		return "Mobile"
	default:
		return "Other"
	}
}
