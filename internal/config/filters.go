package config

// DefaultFilteredDomains returns the search-engine hostnames excluded
// from analysis. Result pages sit between nearly every pair of real
// visits and would wash out transition classification if kept.
func DefaultFilteredDomains() []string {
	return []string{
		"google.com",
		"google.co.uk",
		"google.de",
		"google.fr",
		"google.ca",
		"bing.com",
		"duckduckgo.com",
		"search.yahoo.com",
		"search.brave.com",
		"startpage.com",
		"ecosia.org",
		"kagi.com",
		"yandex.com",
		"baidu.com",
	}
}
