package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, "v1", info.APIVersion)
}

func TestGetFullVersionString(t *testing.T) {
	assert.Equal(t, "delivery-ranker v"+Version, GetVersionString("delivery-ranker"))
	assert.Contains(t, GetFullVersionString("delivery-ranker"), "commit: "+GitCommit)
}
