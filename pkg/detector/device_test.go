package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	safariIPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	firefoxLinuxUA  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	ipadUA          = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
)

func TestIsBot(t *testing.T) {
	bots := []string{
		"Googlebot/2.1 (+http://www.google.com/bot.html)",
		"curl/8.4.0",
		"Wget/1.21",
		"python-requests/2.31.0",
		"Go-http-client/1.1",
		"Mozilla/5.0 (compatible; AhrefsBot/7.0)",
	}
	for _, ua := range bots {
		assert.True(t, IsBot(ua), "should classify as bot: %s", ua)
	}

	assert.False(t, IsBot(chromeWindowsUA))
	assert.False(t, IsBot(safariIPhoneUA))
}

func TestParse_ChromeWindows(t *testing.T) {
	parsed := Parse(chromeWindowsUA)

	assert.Equal(t, "Chrome", parsed.Browser)
	assert.Equal(t, "120.0.0.0", parsed.BrowserVersion)
	assert.Equal(t, "Windows", parsed.OS)
	assert.Equal(t, "10.0", parsed.OSVersion)
	assert.Equal(t, "desktop", parsed.DeviceType)
}

func TestParse_SafariIPhone(t *testing.T) {
	parsed := Parse(safariIPhoneUA)

	assert.Equal(t, "Safari", parsed.Browser)
	assert.Equal(t, "17.1", parsed.BrowserVersion)
	assert.Equal(t, "iOS", parsed.OS)
	assert.Equal(t, "17.1", parsed.OSVersion)
	assert.Equal(t, "mobile", parsed.DeviceType)
	assert.Equal(t, "Apple", parsed.DeviceBrand)
	assert.Equal(t, "iPhone", parsed.DeviceModel)
}

func TestParse_FirefoxLinux(t *testing.T) {
	parsed := Parse(firefoxLinuxUA)

	assert.Equal(t, "Firefox", parsed.Browser)
	assert.Equal(t, "121.0", parsed.BrowserVersion)
	assert.Equal(t, "Linux", parsed.OS)
	assert.Equal(t, "desktop", parsed.DeviceType)
}

func TestParse_UnknownUA(t *testing.T) {
	parsed := Parse("some-odd-client/1.0")

	assert.Empty(t, parsed.Browser)
	assert.Empty(t, parsed.OS)
	assert.Equal(t, "unknown", parsed.DeviceType)
}

func TestDetectDeviceType(t *testing.T) {
	assert.Equal(t, "desktop", DetectDeviceType(chromeWindowsUA))
	assert.Equal(t, "mobile", DetectDeviceType(safariIPhoneUA))
	assert.Equal(t, "tablet", DetectDeviceType(ipadUA))
	assert.Equal(t, "unknown", DetectDeviceType("odd"))
}

func TestClientIP_HeaderPreference(t *testing.T) {
	ip := ClientIP("10.0.0.1:4321", "203.0.113.7, 70.41.3.18", "198.51.100.2", "198.51.100.3")
	assert.Equal(t, "203.0.113.7", ip, "first X-Forwarded-For hop wins")

	ip = ClientIP("10.0.0.1:4321", "", "198.51.100.2", "198.51.100.3")
	assert.Equal(t, "198.51.100.2", ip)

	ip = ClientIP("10.0.0.1:4321", "", "", "198.51.100.3")
	assert.Equal(t, "198.51.100.3", ip)

	ip = ClientIP("10.0.0.1:4321", "", "", "")
	assert.Equal(t, "10.0.0.1", ip)
}

func TestClientIP_IPv6(t *testing.T) {
	ip := ClientIP("[2001:db8::1]:443", "", "", "")
	assert.Equal(t, "2001:db8::1", ip)
}

func TestClientIP_Fallback(t *testing.T) {
	ip := ClientIP("not-an-address", "garbage", "also bad", "")
	assert.Equal(t, "127.0.0.1", ip)
}
