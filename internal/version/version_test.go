package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	result := String()

	assert.Contains(t, result, "summarygate version")
	assert.Contains(t, result, Version)
	assert.Contains(t, result, "built "+BuildTime)
}

func TestString_UsesLinkerOverrides(t *testing.T) {
	oldVersion, oldBuild := Version, BuildTime
	t.Cleanup(func() { Version, BuildTime = oldVersion, oldBuild })

	Version = "v1.2.3"
	BuildTime = "2026-01-02T03:04:05Z"

	assert.Equal(t, "summarygate version v1.2.3 (built 2026-01-02T03:04:05Z)", String())
}
