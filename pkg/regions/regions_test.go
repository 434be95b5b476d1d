package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutingOf(t *testing.T) {
	tests := []struct {
		platform string
		want     Routing
	}{
		{platform: "na1", want: "americas"},
		{platform: "euw1", want: "europe"},
		{platform: "kr", want: "asia"},
		{platform: "oc1", want: "sea"},
		{platform: "nope", want: "americas"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoutingOf(tt.platform), "platform %s", tt.platform)
	}
}

func TestHosts(t *testing.T) {
	assert.Equal(t, "https://na1.api.riotgames.com", PlatformHost("na1"))
	assert.Equal(t, "https://americas.api.riotgames.com", RoutingHost("na1"))

	assert.True(t, IsValid("na1"))
	assert.False(t, IsValid("mars1"))
}
