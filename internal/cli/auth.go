package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/primecart/internal/domain"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <customer|admin>",
		Short: "Start a session as the demo customer or the store owner",
		Long: `Switch the session user. There are no passwords: "admin" logs in as
the store owner and any other role as the demo customer.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(args[0])
			if err != nil {
				return rootOpts.formatter(cmd).Fail(ExitCommandError, ErrCodeInput, "invalid role", err)
			}
			return withShop(cmd, rootOpts, func(s *shop) error {
				u := s.engine.Login(role)
				return s.out.Success(u, func(w io.Writer) {
					writeUser(w, &u)
				})
			})
		},
	}
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "End the session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShop(cmd, rootOpts, func(s *shop) error {
				s.engine.Logout()
				return s.out.Success(map[string]any{"user": nil}, func(w io.Writer) {
					writeUser(w, nil)
				})
			})
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Show the session user",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShop(cmd, rootOpts, func(s *shop) error {
				var user *domain.User
				if u, ok := s.engine.User(); ok {
					user = &u
				}
				return s.out.Success(map[string]any{"user": user}, func(w io.Writer) {
					writeUser(w, user)
				})
			})
		},
	}
}
