package command

import (
	"errors"
	"fmt"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/core"
	"imagen-gateway/internal/pkg/session"

	"github.com/spf13/cobra"
)

type SessionHandler struct {
	config *config.Configuration
	now    func() time.Time
}

func NewSessionHandler(config *config.Configuration) *SessionHandler {
	return &SessionHandler{config: config, now: time.Now}
}

// Issue 發放本機測試用 session token，需與服務共用 AUTH__SECRET
func (handler *SessionHandler) Issue(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	if email == "" {
		return errors.New("--email is required")
	}
	ttl := time.Duration(handler.config.Auth.SessionTTLSeconds) * time.Second
	token, err := session.Issue(handler.config.Auth.Secret, core.SessionUser{Email: email, Name: name}, ttl, handler.now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
