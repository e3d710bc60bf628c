package scoring

import (
	"fmt"
	"strings"
)

var genericEmailDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
	"aol.com":     true,
}

// AnalyzeEmailDomain describes how professional a contact email looks and
// whether its domain matches the lead's website. Pure function, never fails:
// unexpected input shapes resolve to the invalid-format message.
func AnalyzeEmailDomain(email, website string) string {
	email = strings.TrimSpace(email)
	if email == "" || strings.EqualFold(email, "nan") {
		return "No email provided"
	}

	parts := strings.Split(email, "@")
	if len(parts) < 2 {
		return "Invalid email format"
	}
	domain := strings.ToLower(parts[1])

	if genericEmailDomains[domain] {
		return fmt.Sprintf("Generic email domain (%s) - less professional", domain)
	}

	website = strings.TrimSpace(website)
	if website != "" && !strings.EqualFold(website, "nan") {
		siteDomain := websiteDomain(website)
		if strings.Contains(siteDomain, domain) || strings.Contains(domain, siteDomain) {
			return fmt.Sprintf("Professional email - domain matches website (%s)", domain)
		}
		return fmt.Sprintf("Email domain (%s) doesn't match website", domain)
	}

	return fmt.Sprintf("Professional email domain (%s)", domain)
}

func websiteDomain(website string) string {
	site := strings.TrimPrefix(website, "http://")
	site = strings.TrimPrefix(site, "https://")
	site = strings.TrimPrefix(site, "www.")
	if idx := strings.Index(site, "/"); idx >= 0 {
		site = site[:idx]
	}
	return strings.ToLower(site)
}
