// Package environment decides whether a request comes from the embedded
// mobile wrapper or a standard browser, and derives device metadata from
// the user agent.
package environment

import (
	"strings"

	pstrings "aura/pkg/platform/strings"
)

// Verdict classifies the execution environment of a client.
type Verdict string

const (
	VerdictWeb    Verdict = "web"
	VerdictMobile Verdict = "mobile"
)

// Classifier decides the environment for a request. Implementations must be
// pure and total: any input yields a verdict, never an error. New embedded
// client identifiers are added by swapping the implementation, not by
// touching call sites.
type Classifier interface {
	Classify(hostname, userAgent string) Verdict
}

// Static classifies against a fixed allow-list of embedded hostnames and a
// set of user-agent markers planted by the embedding runtime.
type Static struct {
	hostnames map[string]struct{}
	markers   []string
}

// NewStatic builds a Static classifier. Hostnames match exactly
// (case-insensitive); markers match as case-insensitive substrings.
func NewStatic(hostnames, markers []string) *Static {
	cleaned := pstrings.DedupeAndTrimLower(hostnames)
	hs := make(map[string]struct{}, len(cleaned))
	for _, h := range cleaned {
		hs[h] = struct{}{}
	}
	return &Static{hostnames: hs, markers: pstrings.DedupeAndTrimLower(markers)}
}

// Classify returns VerdictMobile when the hostname is on the embedded
// allow-list or the user agent carries an embedded-runtime marker.
// Unmatched input defaults to web: the less privileged, more common path.
func (c *Static) Classify(hostname, userAgent string) Verdict {
	if _, ok := c.hostnames[strings.ToLower(hostname)]; ok {
		return VerdictMobile
	}
	if userAgent != "" {
		ua := strings.ToLower(userAgent)
		for _, marker := range c.markers {
			if strings.Contains(ua, marker) {
				return VerdictMobile
			}
		}
	}
	return VerdictWeb
}
