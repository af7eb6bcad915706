package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/forgo/vidgram/internal/model"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit profiles",
	}
	cmd.AddCommand(newProfileShowCmd(a))
	cmd.AddCommand(newProfileUpdateCmd(a))
	return cmd
}

func newProfileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [user-id]",
		Short: "Show a profile (yours by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				view, err := a.profiles.Get(ctx, a.session, ownerArg(args, ""))
				if err != nil {
					return err
				}
				return printProfile(cmd, a, view)
			})
		},
	}
}

func newProfileUpdateCmd(a *app) *cobra.Command {
	var (
		username, email, phone, address string
		account                         string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Edit your profile",
		Long:  "Edit your profile. Fields whose flags are not given keep their current value.",
		Example: `  vidgram profile update --account private
  vidgram profile update --phone 5550001111 --address "1 New Road, Springfield"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				current, err := a.profiles.Get(ctx, a.session, "")
				if err != nil {
					return err
				}

				req := model.ProfileFromRecord(&current.ProfileRecord)
				flags := cmd.Flags()
				if flags.Changed("username") {
					req.Username = username
				}
				if flags.Changed("email") {
					req.Email = email
				}
				if flags.Changed("phone") {
					req.Phone = phone
				}
				if flags.Changed("address") {
					req.Address = address
				}
				if flags.Changed("account") {
					req.AccountType = model.Visibility(account)
				}

				view, err := a.profiles.Update(ctx, a.session, current.ID, req)
				if err != nil {
					return err
				}
				return printProfile(cmd, a, view)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&username, "username", "", "Display name")
	f.StringVar(&email, "email", "", "Account email")
	f.StringVar(&phone, "phone", "", "Phone number")
	f.StringVar(&address, "address", "", "Postal address")
	f.StringVar(&account, "account", "", "Account type (public, private)")
	return cmd
}

func printProfile(cmd *cobra.Command, a *app, view *model.ProfileView) error {
	if isJSON(cmd) {
		return printJSON(a.out, view)
	}

	rows := [][]string{
		{"ID", view.ID},
		{"Username", view.Username},
		{"Account", string(view.AccountType)},
		{"Followers", strconv.Itoa(view.FollowersCount)},
		{"Following", strconv.Itoa(view.FollowingCount)},
	}
	if view.ContactVisible {
		rows = append(rows,
			[]string{"Email", orDash(view.Email)},
			[]string{"Phone", orDash(view.Phone)},
			[]string{"Address", orDash(view.Address)},
		)
	} else {
		rows = append(rows, []string{"Contact", "hidden (private account)"})
	}
	if view.IsOwner {
		rows = append(rows, []string{"Owner", "you"})
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(a.out, "%-10s %s\n", r[0]+":", r[1]); err != nil {
			return err
		}
	}
	return nil
}
