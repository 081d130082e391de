package factstore

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ppiankov/factlens/internal/model"
)

// TierClassifier assigns a reliability tier to sources that do not
// declare one, based on the source URL
type TierClassifier struct {
	domainMap    map[string]model.ReliabilityTier
	primary      []string
	secondary    []string
	pathPatterns []compiledPattern
}

type compiledPattern struct {
	pattern *regexp.Regexp
	tier    model.ReliabilityTier
}

// NewTierClassifier creates a classifier. A nil config uses the defaults.
func NewTierClassifier(config *model.AuthorityConfig) *TierClassifier {
	if config == nil {
		config = &model.DefaultConfig().Authority
	}

	c := &TierClassifier{
		domainMap: make(map[string]model.ReliabilityTier, len(config.DomainMap)),
		primary:   normalizeDomains(config.PrimaryDomains),
		secondary: normalizeDomains(config.SecondaryDomains),
	}

	for domain, tier := range config.DomainMap {
		c.domainMap[strings.ToLower(domain)] = tierOrTertiary(tier)
	}

	// Invalid patterns are skipped rather than failing dataset load
	for _, pp := range config.PathPatterns {
		re, err := regexp.Compile(pp.Pattern)
		if err != nil {
			continue
		}
		c.pathPatterns = append(c.pathPatterns, compiledPattern{pattern: re, tier: tierOrTertiary(pp.Tier)})
	}

	return c
}

// Classify returns the tier for rawURL. Sources without a URL stay unknown.
func (c *TierClassifier) Classify(rawURL string) model.ReliabilityTier {
	if strings.TrimSpace(rawURL) == "" {
		return model.TierUnknown
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return model.TierTertiary
	}
	host := strings.ToLower(parsed.Hostname())

	if tier, ok := c.domainMap[host]; ok {
		return tier
	}
	if matchesDomain(host, c.primary) {
		return model.TierPrimary
	}
	if matchesDomain(host, c.secondary) {
		return model.TierSecondary
	}
	for _, cp := range c.pathPatterns {
		if cp.pattern.MatchString(parsed.Path) {
			return cp.tier
		}
	}

	// Government and academic hosts
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".ac.uk") {
		return model.TierPrimary
	}

	return model.TierTertiary
}

// matchesDomain reports whether host equals or is a subdomain of any domain
func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

func tierOrTertiary(s string) model.ReliabilityTier {
	tier := model.ParseReliabilityTier(strings.ToLower(strings.TrimSpace(s)))
	if tier == model.TierUnknown {
		return model.TierTertiary
	}
	return tier
}
