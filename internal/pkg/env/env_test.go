package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersLoadedFile(t *testing.T) {
	Env = map[string]string{"TIERPAY_TEST_KEY": "from-file"}
	t.Cleanup(func() { Env = nil })
	t.Setenv("TIERPAY_TEST_KEY", "from-process")
	t.Setenv("TIERPAY_TEST_OTHER", "process-only")

	assert.Equal(t, "from-file", GetEnv("TIERPAY_TEST_KEY", "def"))
	assert.Equal(t, "process-only", GetEnv("TIERPAY_TEST_OTHER", "def"))
	assert.Equal(t, "def", GetEnv("TIERPAY_TEST_MISSING", "def"))
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("TIERPAY_TEST_INT", "42")
	t.Setenv("TIERPAY_TEST_BAD_INT", "many")
	t.Setenv("TIERPAY_TEST_DURATION", "90s")

	assert.Equal(t, 42, GetEnvInt("TIERPAY_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("TIERPAY_TEST_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, GetEnvDuration("TIERPAY_TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, GetEnvDuration("TIERPAY_TEST_MISSING", time.Minute))
}
