package command

import (
	"context"
	"time"

	"imagen-gateway/internal/vertex"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type CredentialsHandler struct {
	logger  *zap.Logger
	factory *vertex.Factory
}

func NewCredentialsHandler(logger *zap.Logger, factory *vertex.Factory) *CredentialsHandler {
	return &CredentialsHandler{
		logger:  logger,
		factory: factory,
	}
}

// Check 解析憑證並換取一次 access token
func (handler *CredentialsHandler) Check(cmd *cobra.Command, args []string) error {
	cmd.Println("project :", handler.factory.ProjectID())
	cmd.Println("location:", handler.factory.Location())

	cred, err := handler.factory.ResolveCredentials()
	if err != nil {
		return err
	}
	cmd.Println("type    :", cred.Type)
	cmd.Println("email   :", cred.ClientEmail)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	token, _, err := handler.factory.AccessToken(ctx)
	if err != nil {
		return err
	}
	cmd.Println("token   :", token.Prefix(30))
	return nil
}
