package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := NewRootCommand()
	cmd.SetContext(context.Background())
	return cmd
}

func TestRootCommand_Version(t *testing.T) {
	cmd := newTestRoot(t)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "moldesc")
}

func TestRootCommand_InitialisesContext(t *testing.T) {
	t.Setenv("MOLDESC_LOG_LEVEL", "warn")

	cmd := newTestRoot(t)
	var captured *CLIContext
	cmd.AddCommand(&cobra.Command{
		Use: "probe",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, err := GetCLIContext(c)
			if err != nil {
				return err
			}
			captured = ctx
			return nil
		},
	})
	cmd.SetArgs([]string{"probe"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, captured)
	assert.Equal(t, "warn", captured.Config.Log.Level)
	assert.NotNil(t, captured.Logger)
}

func TestRootCommand_LogLevelFlagOverridesEnv(t *testing.T) {
	t.Setenv("MOLDESC_LOG_LEVEL", "warn")

	cmd := newTestRoot(t)
	var level string
	cmd.AddCommand(&cobra.Command{
		Use: "probe",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, err := GetCLIContext(c)
			if err != nil {
				return err
			}
			level = ctx.Config.Log.Level
			return nil
		},
	})
	cmd.SetArgs([]string{"probe", "--log-level", "debug"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "debug", level)
}

func TestGetCLIContext_Uninitialised(t *testing.T) {
	cmd := &cobra.Command{Use: "bare"}
	cmd.SetContext(context.Background())

	_, err := GetCLIContext(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialised")
}

func TestDescribeCommand_ListsDescriptors(t *testing.T) {
	cmd := newTestRoot(t)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"describe"})

	require.NoError(t, cmd.Execute())

	listing := out.String()
	assert.Contains(t, listing, "NAME")
	assert.Contains(t, listing, "nAtom")
	assert.Contains(t, listing, "Lipinski")
	assert.Contains(t, listing, "RoG")
	assert.Contains(t, listing, "3D")
	// Lipinski depends on four other descriptors.
	for _, line := range strings.Split(listing, "\n") {
		if strings.HasPrefix(line, "Lipinski") {
			assert.Contains(t, line, "MW")
			assert.Contains(t, line, "SLogP")
		}
	}
}

func TestDescribeCommand_Ignore3D(t *testing.T) {
	cmd := newTestRoot(t)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"describe", "--ignore-3d"})

	require.NoError(t, cmd.Execute())
	assert.NotContains(t, out.String(), "RoG")
}
