package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.NotEmpty(t, GetString(DatadirKey))
	assert.NotEmpty(t, GetString(ChainIDKey))
	assert.Equal(t, 15, GetInt(KdfLogNKey))
	assert.Equal(t, 4, GetInt(LogLevelKey))
}

func TestSetOverrides(t *testing.T) {
	Set(ChainIDKey, "namada-main.abcdef000000")
	assert.Equal(t, "namada-main.abcdef000000", GetString(ChainIDKey))
	assert.True(t, IsSet(ChainIDKey))
}

func TestGetDbDir(t *testing.T) {
	Set(DatadirKey, "/tmp/namkeyring-test")
	assert.Equal(t, "/tmp/namkeyring-test/db", GetDbDir())
}
