package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/vidgram/internal/model"
)

// followView is the JSON shape of a toggle result
type followView struct {
	TargetID     string                  `json:"target_id"`
	Relationship model.RelationshipState `json:"relationship"`
}

func newFollowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "follow <user-id>",
		Short: "Follow, unfollow or request to follow a user",
		Long: `Toggle the relationship with a user. Following users are unfollowed,
private accounts get a follow request, and anyone else is followed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetID := args[0]
			return a.run(cmd.Context(), func(ctx context.Context) error {
				if err := a.tracker.Reconcile(ctx, a.session); err != nil {
					return err
				}
				target, err := a.profiles.Get(ctx, a.session, targetID)
				if err != nil {
					return err
				}

				state, err := a.tracker.Toggle(ctx, a.session, targetID, target.AccountType)
				if err != nil {
					return err
				}

				if isJSON(cmd) {
					return printJSON(a.out, followView{TargetID: targetID, Relationship: state})
				}
				var msg string
				switch state {
				case model.RelationshipFollowing:
					msg = fmt.Sprintf("Following %s", target.Username)
				case model.RelationshipRequested:
					msg = fmt.Sprintf("Follow request sent to %s", target.Username)
				default:
					msg = fmt.Sprintf("Unfollowed %s", target.Username)
				}
				_, err = fmt.Fprintln(a.out, msg)
				return err
			})
		},
	}
}

func newRequestsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Manage incoming follow requests",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pending follow requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				reqs, err := a.inbox.Load(ctx, a.session)
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(a.out, reqs)
				}
				rows := make([][]string, 0, len(reqs))
				for _, r := range reqs {
					rows = append(rows, []string{r.ID, r.Username})
				}
				return printTable(a.out, []string{"REQUEST", "FROM"}, rows)
			})
		},
	})
	cmd.AddCommand(newHandleRequestCmd(a, model.RequestActionApprove, "Approve a follow request"))
	cmd.AddCommand(newHandleRequestCmd(a, model.RequestActionReject, "Reject a follow request"))

	return cmd
}

// handledView is the JSON shape of an approved or rejected request
type handledView struct {
	RequestID      string              `json:"request_id"`
	Action         model.RequestAction `json:"action"`
	FollowersCount int                 `json:"followers_count"`
}

func newHandleRequestCmd(a *app, action model.RequestAction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <request-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID := args[0]
			return a.run(cmd.Context(), func(ctx context.Context) error {
				owner, err := a.profiles.Get(ctx, a.session, "")
				if err != nil {
					return err
				}
				a.inbox.SetFollowersCount(owner.FollowersCount)
				if _, err := a.inbox.Load(ctx, a.session); err != nil {
					return err
				}
				if err := a.inbox.Handle(ctx, a.session, requestID, action); err != nil {
					return err
				}

				if isJSON(cmd) {
					return printJSON(a.out, handledView{
						RequestID:      requestID,
						Action:         action,
						FollowersCount: a.inbox.FollowersCount(),
					})
				}
				verb := "Approved"
				if action == model.RequestActionReject {
					verb = "Rejected"
				}
				_, err = fmt.Fprintf(a.out, "%s request %s (followers: %d)\n", verb, requestID, a.inbox.FollowersCount())
				return err
			})
		},
	}
}
