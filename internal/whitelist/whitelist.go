package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker tells whether a comment author's email belongs to a trusted domain
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new whitelist checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		d := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
		if d != "" {
			normalized[d] = struct{}{}
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized trusted domain checker", zap.Int("domains", len(normalized)))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsWhitelisted checks if the author's domain, or a parent of it, is trusted
func (c *Checker) IsWhitelisted(email string) bool {
	if len(c.domains) == 0 {
		return false
	}

	domain := Domain(email)
	for domain != "" {
		if _, ok := c.domains[domain]; ok {
			if c.logger != nil {
				c.logger.Debug("Domain is trusted",
					zap.String("domain", domain),
					zap.String("email", email))
			}
			return true
		}
		dot := strings.IndexByte(domain, '.')
		if dot < 0 {
			break
		}
		domain = domain[dot+1:]
	}

	return false
}

// Domain extracts the lower-cased domain from an address such as
// "alice@example.com" or "Alice <alice@example.com>"
func Domain(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	domain := strings.TrimSuffix(email[at+1:], ">")
	return strings.ToLower(strings.TrimSpace(domain))
}
