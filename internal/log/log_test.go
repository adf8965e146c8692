package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_DisabledWithoutInit(t *testing.T) {
	Reset()
	// Must not panic with no sink installed.
	Debug(CatChain, "nothing", "k", "v")
	ErrorErr(CatChain, "nothing", errors.New("boom"))
}

func TestLog_FormatsFields(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	Info(CatRegistry, "Registered", "name", "people-search", "placeholders", 2)

	line := buf.String()
	require.Contains(t, line, "[INFO] [registry] Registered")
	require.Contains(t, line, "name=people-search")
	require.Contains(t, line, "placeholders=2")
	require.True(t, strings.HasSuffix(line, "\n"))
}

func TestLog_OddFieldCount(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	Warn(CatDecode, "Dangling", "orphan")

	require.Contains(t, buf.String(), "orphan=<missing>")
}

func TestLog_MinLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	SetMinLevel(LevelWarn)
	Debug(CatChain, "hidden")
	Info(CatChain, "hidden")
	Error(CatChain, "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[ERROR] [chain] shown")
}

func TestLog_SetEnabled(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	SetEnabled(false)
	Info(CatChain, "muted")
	require.Empty(t, buf.String())

	SetEnabled(true)
	Info(CatChain, "audible")
	require.Contains(t, buf.String(), "audible")
}

func TestLog_ErrorErrNil(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	ErrorErr(CatDB, "Query failed", nil)

	require.Contains(t, buf.String(), "error=<nil>")
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)
	t.Cleanup(Reset)

	Info(CatConfig, "Loaded config")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [config] Loaded config")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel(" error "))
	require.Equal(t, LevelInfo, ParseLevel("whatever"))
}
