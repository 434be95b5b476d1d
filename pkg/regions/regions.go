package regions

import "fmt"

// Simple package containing the region mappings.
// Create the types for clarity.
type (
	// Platform region, where the league and summoner endpoints live. (na1, euw1...)
	Platform string
	// Routing region, where the match v5 endpoints live. (americas, europe...)
	Routing string
)

// Platform to routing mapping for the match endpoints.
var routingByPlatform = map[Platform]Routing{
	"na1":  "americas",
	"br1":  "americas",
	"la1":  "americas",
	"la2":  "americas",
	"euw1": "europe",
	"eun1": "europe",
	"tr1":  "europe",
	"ru":   "europe",
	"kr":   "asia",
	"jp1":  "asia",
	"oc1":  "sea",
	"sg2":  "sea",
	"tw2":  "sea",
	"vn2":  "sea",
}

// Validate a platform region code.
func IsValid(platform string) bool {
	_, ok := routingByPlatform[Platform(platform)]
	return ok
}

// Get the routing region for a given platform region.
// Falls back to americas for unknown platforms, matching the original behavior.
func RoutingOf(platform string) Routing {
	if routing, ok := routingByPlatform[Platform(platform)]; ok {
		return routing
	}
	return "americas"
}

// Base URL of the platform host. (league/summoner endpoints)
func PlatformHost(platform string) string {
	return fmt.Sprintf("https://%s.api.riotgames.com", platform)
}

// Base URL of the routing host. (match endpoints)
func RoutingHost(platform string) string {
	return fmt.Sprintf("https://%s.api.riotgames.com", RoutingOf(platform))
}
