package environment

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// DeviceService derives display names and fingerprints from user agents.
// Fingerprints feed session metadata and audit detail; they are not an
// authentication factor.
type DeviceService struct {
	fingerprintEnabled bool
}

func NewDeviceService(fingerprintEnabled bool) *DeviceService {
	return &DeviceService{fingerprintEnabled: fingerprintEnabled}
}

// ParseUserAgent renders a human-readable "Browser on Platform" name for a
// raw user-agent string.
func ParseUserAgent(rawUA string) string {
	if strings.TrimSpace(rawUA) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	platform := ua.Platform()
	if platform == "" {
		platform = ua.OSInfo().Name
	}
	if platform == "" {
		platform = "Unknown Platform"
	}

	return strings.TrimSpace(fmt.Sprintf("%s on %s", browser, platform))
}

// ComputeFingerprint hashes the stable parts of a user agent: browser name,
// major version, and OS. Minor and patch version bumps do not change the
// fingerprint; major version or OS changes do. Returns empty when disabled.
func (s *DeviceService) ComputeFingerprint(rawUA string) string {
	if !s.fingerprintEnabled {
		return ""
	}

	ua := useragent.New(rawUA)
	browser, version := ua.Browser()
	major := version
	if idx := strings.IndexByte(version, '.'); idx >= 0 {
		major = version[:idx]
	}

	material := strings.Join([]string{browser, major, ua.OSInfo().FullName}, "|")
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

// CompareFingerprints reports whether two fingerprints match and whether
// the difference counts as drift.
func (s *DeviceService) CompareFingerprints(stored, current string) (matched, drift bool) {
	matched = stored == current
	return matched, !matched
}
