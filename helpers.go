package gerlin

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// OrganizationJSONLD returns a JSON-LD string for the NGO schema of the
// association.
func OrganizationJSONLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "NGO",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
		"founder": map[string]string{
			"@type": "Person",
			"name":  "Don Mario Gerlin",
		},
		"areaServed": "Bambuí, Minas Gerais, Brasil",
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
