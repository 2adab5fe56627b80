package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/xlog"
)

func testLogger() xlog.XLogger {
	return xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.LogLevelError),
		xlog.WithXLoggerStdErrWriter(),
	)
}

func executeCmd(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd := newRootCmd()
	rootCmd.SetIn(strings.NewReader(in))
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--log-level", "ERROR"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := executeCmd(t, "", "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "xtree dev ("))
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, err := executeCmd(t, "", "plant")
	require.Error(t, err)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	_, err := executeCmd(t, "", "bench", "--workers", "0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bench.workers")
}
