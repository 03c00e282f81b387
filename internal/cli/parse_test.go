package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidString(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewParseCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"XZYIZZ"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "X0 Z1 Y2 Z4 Z5\n", buf.String())
}

func TestParseAllIdentity(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewParseCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"III"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "I\n", buf.String())
}

func TestParseJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewParseCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"XZ"})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "XZ", data["input"])
	assert.Equal(t, "X0 Z1", data["normalized"])
	assert.Equal(t, float64(2), data["operators"])
}

func TestParseInvalidCharacter(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewParseCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"XZTAL"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "invalid operator character")
	assert.Contains(t, buf.String(), ErrCodeParseFailed)
}
