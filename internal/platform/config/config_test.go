package config

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envTestConfig struct {
	Logging
	Limit int    `env:"DEPENDENT_TEST_LIMIT" envDefault:"100"`
	Home  string `env:"HOME_TEST_DIR"`
}

func TestParseEnv(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg envTestConfig
		require.NoError(t, ParseEnv(&cfg))

		assert.Equal(t, 100, cfg.Limit)
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "text", cfg.Format)
	})

	t.Run("reads the environment", func(t *testing.T) {
		t.Setenv("DEPENDENT_TEST_LIMIT", "7")
		t.Setenv("DEPENDENT_LOG_LEVEL", "debug")

		var cfg envTestConfig
		require.NoError(t, ParseEnv(&cfg))

		assert.Equal(t, 7, cfg.Limit)
		assert.Equal(t, "debug", cfg.Level)
	})

	t.Run("wraps parse errors", func(t *testing.T) {
		t.Setenv("DEPENDENT_TEST_LIMIT", "not-an-int")

		var cfg envTestConfig
		err := ParseEnv(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "environment:")
	})

	t.Run("ignores variables outside the prefix", func(t *testing.T) {
		var cfg envTestConfig
		require.NoError(t, parseEnviron(&cfg, []string{
			"HOME_TEST_DIR=/tmp",
			"DEPENDENT_TEST_LIMIT=3",
			"DEPENDENT_MALFORMED",
		}))

		assert.Equal(t, 3, cfg.Limit)
		assert.Empty(t, cfg.Home)
	})
}

func TestLogging(t *testing.T) {
	t.Run("filters below the level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := Logging{Level: "warn", Format: "text"}.NewLogger(&buf)
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("writes json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := Logging{Level: "info", Format: "JSON"}.NewLogger(&buf)
		require.NoError(t, err)

		logger.Info("hello", "n", 1)
		assert.Contains(t, buf.String(), `"msg":"hello"`)
		assert.Contains(t, buf.String(), `"n":1`)
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := Logging{Level: "loud"}.NewLogger(&bytes.Buffer{})
		assert.Error(t, err)

		_, err = Logging{Level: "info", Format: "xml"}.NewLogger(&bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestExitf(t *testing.T) {
	var buf bytes.Buffer
	code := -1

	stderr, exit = &buf, func(c int) { code = c }
	t.Cleanup(func() { stderr, exit = os.Stderr, os.Exit })

	Exitf("fatal: %s", "something broke")

	assert.Equal(t, 1, code)
	assert.Equal(t, "fatal: something broke\n", buf.String())
}
