package detector

import (
	"net"
	"regexp"
	"strings"
)

// UserAgent holds what we could derive from a raw User-Agent string.
// Empty fields mean the dimension could not be detected.
type UserAgent struct {
	Browser        string
	BrowserVersion string
	OS             string
	OSVersion      string
	DeviceType     string
	DeviceBrand    string
	DeviceModel    string
}

var botKeywords = []string{
	"bot", "crawler", "spider", "scraper", "curl", "wget",
	"python-requests", "go-http-client", "headless", "lighthouse",
	"facebookexternalhit", "slackbot", "whatsapp", "telegram",
}

// IsBot reports whether the user agent looks like automated traffic.
// Bot requests are redirected but never recorded.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, keyword := range botKeywords {
		if strings.Contains(ua, keyword) {
			return true
		}
	}
	return false
}

// browser matchers are ordered: Edge and Opera embed "Chrome", Chrome
// embeds "Safari", so the more specific tokens come first.
var browserMatchers = []struct {
	name    string
	token   string
	version *regexp.Regexp
}{
	{"Edge", "edg", regexp.MustCompile(`(?i)edg(?:e|a|ios)?/([\d.]+)`)},
	{"Opera", "opr", regexp.MustCompile(`(?i)opr/([\d.]+)`)},
	{"Opera", "opera", regexp.MustCompile(`(?i)opera[/ ]([\d.]+)`)},
	{"Samsung Internet", "samsungbrowser", regexp.MustCompile(`(?i)samsungbrowser/([\d.]+)`)},
	{"Firefox", "firefox", regexp.MustCompile(`(?i)firefox/([\d.]+)`)},
	{"Chrome", "chrome", regexp.MustCompile(`(?i)chrome/([\d.]+)`)},
	{"Chrome", "crios", regexp.MustCompile(`(?i)crios/([\d.]+)`)},
	{"Safari", "safari", regexp.MustCompile(`(?i)version/([\d.]+)`)},
	{"Internet Explorer", "msie", regexp.MustCompile(`(?i)msie ([\d.]+)`)},
	{"Internet Explorer", "trident", regexp.MustCompile(`(?i)rv:([\d.]+)`)},
}

var osMatchers = []struct {
	name    string
	token   string
	version *regexp.Regexp
}{
	{"Windows", "windows nt", regexp.MustCompile(`(?i)windows nt ([\d.]+)`)},
	{"Android", "android", regexp.MustCompile(`(?i)android ([\d.]+)`)},
	{"iOS", "iphone os", regexp.MustCompile(`(?i)iphone os ([\d_]+)`)},
	{"iOS", "cpu os", regexp.MustCompile(`(?i)cpu os ([\d_]+)`)},
	{"macOS", "mac os x", regexp.MustCompile(`(?i)mac os x ([\d_.]+)`)},
	{"Chrome OS", "cros", regexp.MustCompile(`(?i)cros [\w]+ ([\d.]+)`)},
	{"Linux", "linux", nil},
}

// Parse derives browser, OS and device information from a raw
// User-Agent string using keyword tables. It is intentionally a rough
// classifier: anything it cannot place stays empty and the analytics
// layer renders it as Unknown.
func Parse(userAgent string) UserAgent {
	ua := strings.ToLower(userAgent)
	parsed := UserAgent{DeviceType: DetectDeviceType(userAgent)}

	for _, m := range browserMatchers {
		if !strings.Contains(ua, m.token) {
			continue
		}
		parsed.Browser = m.name
		if m.version != nil {
			if match := m.version.FindStringSubmatch(userAgent); len(match) > 1 {
				parsed.BrowserVersion = match[1]
			}
		}
		break
	}

	for _, m := range osMatchers {
		if !strings.Contains(ua, m.token) {
			continue
		}
		parsed.OS = m.name
		if m.version != nil {
			if match := m.version.FindStringSubmatch(userAgent); len(match) > 1 {
				parsed.OSVersion = strings.ReplaceAll(match[1], "_", ".")
			}
		}
		break
	}

	switch {
	case strings.Contains(ua, "iphone"):
		parsed.DeviceBrand, parsed.DeviceModel = "Apple", "iPhone"
	case strings.Contains(ua, "ipad"):
		parsed.DeviceBrand, parsed.DeviceModel = "Apple", "iPad"
	case strings.Contains(ua, "macintosh"):
		parsed.DeviceBrand, parsed.DeviceModel = "Apple", "Mac"
	case strings.Contains(ua, "samsung"):
		parsed.DeviceBrand = "Samsung"
	case strings.Contains(ua, "pixel"):
		parsed.DeviceBrand = "Google"
	case strings.Contains(ua, "huawei"):
		parsed.DeviceBrand = "Huawei"
	case strings.Contains(ua, "xiaomi"), strings.Contains(ua, "redmi"):
		parsed.DeviceBrand = "Xiaomi"
	}

	return parsed
}

func DetectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)

	tabletKeywords := []string{"tablet", "ipad", "kindle", "silk"}
	for _, keyword := range tabletKeywords {
		if strings.Contains(ua, keyword) {
			return "tablet"
		}
	}

	mobileKeywords := []string{"mobile", "android", "iphone", "ipod", "blackberry", "windows phone"}
	for _, keyword := range mobileKeywords {
		if strings.Contains(ua, keyword) {
			return "mobile"
		}
	}

	if strings.Contains(ua, "mozilla") || strings.Contains(ua, "windows") || strings.Contains(ua, "macintosh") || strings.Contains(ua, "x11") {
		return "desktop"
	}

	return "unknown"
}

// ClientIP picks the best client address from the forwarding headers,
// preferring X-Forwarded-For's first hop, then X-Real-IP, then
// CF-Connecting-IP, then the raw remote address. Anything that does not
// parse as an IP falls through to the loopback sentinel.
func ClientIP(remoteAddr, xForwardedFor, xRealIP, cfConnectingIP string) string {
	if xForwardedFor != "" {
		first := strings.TrimSpace(strings.Split(xForwardedFor, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	if ip := strings.TrimSpace(xRealIP); net.ParseIP(ip) != nil {
		return ip
	}

	if ip := strings.TrimSpace(cfConnectingIP); net.ParseIP(ip) != nil {
		return ip
	}

	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil {
		return host
	}

	return "127.0.0.1"
}
