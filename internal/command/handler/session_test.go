package command

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/pkg/session"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssueCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "issue"}
	cmd.Flags().String("email", "", "")
	cmd.Flags().String("name", "", "")
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd
}

func TestSessionIssue(t *testing.T) {
	conf := &config.Configuration{}
	conf.Auth.Secret = "test-secret"
	conf.ApplyDefaults()
	handler := NewSessionHandler(conf)

	var out bytes.Buffer
	cmd := newIssueCmd(&out)
	require.NoError(t, cmd.Flags().Set("email", "dev@example.com"))
	require.NoError(t, cmd.Flags().Set("name", "Dev"))
	require.NoError(t, handler.Issue(cmd, nil))

	user, err := session.Parse("test-secret", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", user.Email)
	assert.Equal(t, "Dev", user.Name)
}

func TestSessionIssueRequiresEmailAndSecret(t *testing.T) {
	conf := &config.Configuration{}
	conf.ApplyDefaults()
	handler := NewSessionHandler(conf)
	handler.now = func() time.Time { return time.Unix(0, 0) }

	var out bytes.Buffer
	cmd := newIssueCmd(&out)
	assert.Error(t, handler.Issue(cmd, nil))

	require.NoError(t, cmd.Flags().Set("email", "dev@example.com"))
	assert.ErrorIs(t, handler.Issue(cmd, nil), session.ErrMissingSecret)
}
