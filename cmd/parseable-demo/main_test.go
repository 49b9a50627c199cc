package main

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowID(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^greeting-alice-[0-9a-f]{8}$`), workflowID("greeting", "Alice"))
	assert.Regexp(t, regexp.MustCompile(`^order-widget-[0-9a-f]{8}$`), workflowID("order", "Widget"))
	assert.NotEqual(t, workflowID("order", "Widget"), workflowID("order", "Widget"))
}

func TestRootCmd_LoadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parseable.yaml")
	require.NoError(t, os.WriteFile(path, []byte("temporal_host: temporal:7233\nlogs_stream: demo-logs\n"), 0o600))
	t.Setenv("PARSEABLE_TEMPORAL_NAMESPACE", "payments")

	a := &app{}
	root := newRootCmd(a)
	ran := false
	for _, c := range root.Commands() {
		if c.Name() == "worker" {
			c.RunE = func(*cobra.Command, []string) error {
				ran = true
				return nil
			}
		}
	}

	root.SetArgs([]string{"worker", "--config", path})
	require.NoError(t, root.Execute())
	assert.True(t, ran)
	assert.Equal(t, "temporal:7233", a.cfg.TemporalHost)
	assert.Equal(t, "demo-logs", a.cfg.LogsStream)
	assert.Equal(t, "payments", a.cfg.TemporalNamespace)
}

func TestRootCmd_MissingConfig(t *testing.T) {
	root := newRootCmd(&app{})
	root.SetArgs([]string{"client", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, root.Execute())
}
