package command

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/pkg/envreport"

	"github.com/spf13/cobra"
)

type EnvHandler struct {
	config *config.Configuration
}

func NewEnvHandler(config *config.Configuration) *EnvHandler {
	return &EnvHandler{config: config}
}

func (handler *EnvHandler) Print(cmd *cobra.Command, args []string) error {
	out, err := json.MarshalIndent(envreport.Build(handler.config, os.LookupEnv, time.Now()), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
