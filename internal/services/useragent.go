package services

import (
	"strings"

	"github.com/mileusna/useragent"

	"github.com/yashkamboj/portfolio/internal/models"
)

// uaRule maps a user agent to a category when match reports true.
// Rule lists are evaluated in order and the first match wins.
type uaRule struct {
	category string
	match    func(ua string) bool
}

func containsAny(needles ...string) func(string) bool {
	return func(ua string) bool {
		for _, n := range needles {
			if strings.Contains(ua, n) {
				return true
			}
		}
		return false
	}
}

// deviceRules checks tablets before phones: many tablets also carry mobile tokens.
// Android without "mobi" is the Android tablet convention. Any Silk user agent,
// accelerated or not, is a Kindle Fire and lands on the tablet rule.
var deviceRules = []uaRule{
	{models.DeviceTablet, func(ua string) bool {
		return containsAny("tablet", "ipad", "playbook", "silk")(ua) ||
			(strings.Contains(ua, "android") && !strings.Contains(ua, "mobi"))
	}},
	{models.DeviceMobile, containsAny(
		"mobile", "android", "iphone", "ipod", "iemobile", "blackberry", "kindle",
		"hpwos", "webos", "opera mobi", "opera mini",
	)},
}

// browserRules puts Edge and Opera ahead of Chrome because their user agents
// embed the Chrome token, and Chrome ahead of Safari for the same reason.
var browserRules = []uaRule{
	{"Edge", containsAny("edg/", "edge/", "edga/", "edgios/")},
	{"Opera", containsAny("opr/", "opera")},
	{"Chrome", containsAny("chrome", "crios")},
	{"Firefox", containsAny("firefox", "fxios")},
	{"Safari", containsAny("safari")},
}

// osRules puts Android before Linux and iOS before macOS ("like Mac OS X").
var osRules = []uaRule{
	{"Windows", containsAny("windows")},
	{"Android", containsAny("android")},
	{"iOS", containsAny("iphone", "ipad", "ipod", "ios")},
	{"macOS", containsAny("mac")},
	{"Linux", containsAny("linux")},
}

func firstMatch(rules []uaRule, ua, fallback string) string {
	for _, r := range rules {
		if r.match(ua) {
			return r.category
		}
	}
	return fallback
}

// ClientProfile is what the analytics layer derives from a raw user agent.
type ClientProfile struct {
	Device         string
	Browser        string
	BrowserVersion string
	OS             string
	OSVersion      string
	IsBot          bool
}

// DetectClient classifies a user agent string. Device, browser and OS come from
// the ordered rule lists above; versions and bot detection come from the
// useragent parser.
func DetectClient(userAgent string) ClientProfile {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" || ua == "unknown" {
		return ClientProfile{Device: models.DeviceUnknown, Browser: "Other", OS: "Other"}
	}

	parsed := useragent.Parse(userAgent)
	return ClientProfile{
		Device:         firstMatch(deviceRules, ua, models.DeviceDesktop),
		Browser:        firstMatch(browserRules, ua, "Other"),
		BrowserVersion: parsed.Version,
		OS:             firstMatch(osRules, ua, "Other"),
		OSVersion:      parsed.OSVersion,
		IsBot:          parsed.Bot,
	}
}
