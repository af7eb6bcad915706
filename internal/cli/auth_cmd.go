package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/vidgram/internal/model"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Example: `  vidgram login --email ana@example.com
  echo "$PASSWORD" | vidgram login --email ana@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := secretFlag(cmd, password, "Password: ")
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), func(ctx context.Context) error {
				id, err := a.auth.Login(ctx, model.LoginRequest{Email: email, Password: pw})
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(a.out, id)
				}
				_, err = fmt.Fprintf(a.out, "Logged in as %s (%s)\n", id.Name, id.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				if err := a.auth.Logout(ctx); err != nil {
					return err
				}
				return printMessage(cmd, a.out, "Logged out")
			})
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				id, err := a.viewer()
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(a.out, id)
				}
				return printTable(a.out, []string{"ID", "NAME", "EMAIL"}, [][]string{{id.ID, id.Name, id.Email}})
			})
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var (
		req      model.RegisterRequest
		password string
		confirm  string
		picture  string
		private  bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Example: `  vidgram register --name "Ana Maria" --email ana@example.com \
    --phone 5551234567 --address "12 Long Street, Springfield" --picture me.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.Password, err = secretFlag(cmd, password, "Password: "); err != nil {
				return err
			}
			req.ConfirmPassword = confirm
			if req.ConfirmPassword == "" {
				req.ConfirmPassword = req.Password
			}

			req.AccountType = model.VisibilityPublic
			if private {
				req.AccountType = model.VisibilityPrivate
			}

			if picture != "" {
				att, f, err := openAttachment(picture)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				req.ProfilePicture = att
			}

			return a.run(cmd.Context(), func(ctx context.Context) error {
				resp, err := a.auth.Register(ctx, &req)
				if err != nil {
					return err
				}
				return printMessage(cmd, a.out, resp.Message)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Display name")
	f.StringVar(&req.Email, "email", "", "Account email")
	f.StringVar(&req.Phone, "phone", "", "Phone number, 10 to 15 digits")
	f.StringVar(&req.Address, "address", "", "Postal address")
	f.StringVar(&password, "password", "", "Password (prompted when omitted)")
	f.StringVar(&confirm, "confirm-password", "", "Password confirmation (defaults to the password)")
	f.StringVar(&picture, "picture", "", "Profile picture, JPEG or PNG")
	f.BoolVar(&private, "private", false, "Create a private account")
	return cmd
}

func newForgotPasswordCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Mail a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				resp, err := a.auth.ForgotPassword(ctx, model.ForgotPasswordRequest{Email: email})
				if err != nil {
					return err
				}
				return printMessage(cmd, a.out, resp.Message)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCmd(a *app) *cobra.Command {
	var token, password, confirm string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a mailed reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := secretFlag(cmd, password, "New password: ")
			if err != nil {
				return err
			}
			if confirm == "" {
				confirm = pw
			}
			return a.run(cmd.Context(), func(ctx context.Context) error {
				resp, err := a.auth.ResetPassword(ctx, model.ResetPasswordRequest{
					Token:           token,
					NewPassword:     pw,
					ConfirmPassword: confirm,
				})
				if err != nil {
					return err
				}
				return printMessage(cmd, a.out, resp.Message)
			})
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Reset token from the email")
	cmd.Flags().StringVar(&password, "password", "", "New password (prompted when omitted)")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "Password confirmation (defaults to the password)")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
