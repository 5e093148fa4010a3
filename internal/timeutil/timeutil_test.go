package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDurationOrDefault(t *testing.T) {
	assert.Equal(t, 45*time.Second, ParseDurationOrDefault("45s", time.Second))
	assert.Equal(t, time.Second, ParseDurationOrDefault("", time.Second))
	assert.Equal(t, time.Second, ParseDurationOrDefault("   ", time.Second))
	assert.Equal(t, time.Second, ParseDurationOrDefault("soon", time.Second))
	assert.Equal(t, 2*time.Minute, ParseDurationOrDefault(" 2m ", time.Second))
}
