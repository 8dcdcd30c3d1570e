// Package platform classifies input URLs against the set of supported
// video hosting sites. Classification is pure pattern matching and must
// succeed before any extractor invocation.
package platform

import (
	"regexp"

	"github.com/iconidentify/vidgrab/internal/domain"
)

type pattern struct {
	re       *regexp.Regexp
	platform domain.Platform
}

// Patterns are anchored at the start of the string: an optional http or
// https scheme, an optional www. subdomain, then the platform host.
var patterns = []pattern{
	{regexp.MustCompile(`^https?://(www\.)?(youtube\.com|youtu\.be)/`), domain.PlatformYouTube},
	{regexp.MustCompile(`^https?://(www\.)?(facebook\.com|fb\.watch)/`), domain.PlatformFacebook},
	{regexp.MustCompile(`^https?://(www\.)?instagram\.com/`), domain.PlatformInstagram},
}

// Classify labels a URL with its platform. The input is expected to be
// pre-trimmed. Any URL that matches no pattern yields
// domain.ErrUnsupportedPlatform.
func Classify(url string) (domain.Platform, error) {
	for _, p := range patterns {
		if p.re.MatchString(url) {
			return p.platform, nil
		}
	}
	return "", domain.ErrUnsupportedPlatform
}

// Supported reports whether a URL belongs to a supported platform.
func Supported(url string) bool {
	_, err := Classify(url)
	return err == nil
}
