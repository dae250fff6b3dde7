package command

import (
	"imagen-gateway/config"
	commandHandler "imagen-gateway/internal/command/handler"
	"imagen-gateway/internal/vertex"

	"github.com/google/wire"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(
	NewCommand,
	NewVertexFactory,
	commandHandler.NewCredentialsHandler,
	commandHandler.NewEnvHandler,
	commandHandler.NewSessionHandler,
)

type Command struct {
	credentialsHandler *commandHandler.CredentialsHandler
	envHandler         *commandHandler.EnvHandler
	sessionHandler     *commandHandler.SessionHandler
}

// NewCommand .
func NewCommand(
	credentialsHandler *commandHandler.CredentialsHandler,
	envHandler *commandHandler.EnvHandler,
	sessionHandler *commandHandler.SessionHandler,
) *Command {
	return &Command{
		credentialsHandler: credentialsHandler,
		envHandler:         envHandler,
		sessionHandler:     sessionHandler,
	}
}

// NewVertexFactory CLI 不啟用 tracing、metrics 與 token 快取
func NewVertexFactory(conf *config.Configuration, logger *zap.Logger) *vertex.Factory {
	return vertex.NewFactory(conf, logger, nil, nil, nil)
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	run := func(fn func(*Command, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()
			return fn(command, cmd, args)
		}
	}

	credentialsCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Google service account 工具",
	}
	credentialsCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "解析 GOOGLE_CREDENTIALS 並換取 access token",
		RunE: run(func(c *Command, cmd *cobra.Command, args []string) error {
			return c.credentialsHandler.Check(cmd, args)
		}),
	})

	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "session token 工具",
	}
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "發放測試用 session token",
		RunE: run(func(c *Command, cmd *cobra.Command, args []string) error {
			return c.sessionHandler.Issue(cmd, args)
		}),
	}
	issueCmd.Flags().String("email", "", "使用者 email")
	issueCmd.Flags().String("name", "", "使用者名稱")
	sessionCmd.AddCommand(issueCmd)

	rootCmd.AddCommand(
		credentialsCmd,
		sessionCmd,
		&cobra.Command{
			Use:   "env",
			Short: "列出部署環境變數是否設定",
			RunE: run(func(c *Command, cmd *cobra.Command, args []string) error {
				return c.envHandler.Print(cmd, args)
			}),
		},
	)
}
