package cli

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgo/vidgram/internal/model"
)

func newPostsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Upload videos and read the feed",
	}
	cmd.AddCommand(newPostsUploadCmd(a))
	cmd.AddCommand(newPostsFeedCmd(a))
	return cmd
}

func newPostsUploadCmd(a *app) *cobra.Command {
	var (
		description string
		videos      []string
	)

	cmd := &cobra.Command{
		Use:     "upload",
		Short:   "Publish a post with one or more MP4 videos",
		Example: `  vidgram posts upload --description "sunset" --video a.mp4 --video b.mp4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := &model.UploadPostRequest{Description: description}
			for _, path := range videos {
				att, f, err := openAttachment(path)
				if err != nil {
					return err
				}
				defer func(f *os.File) { _ = f.Close() }(f)
				req.Videos = append(req.Videos, *att)
			}

			return a.run(cmd.Context(), func(ctx context.Context) error {
				resp, err := a.posts.Upload(ctx, a.session, req)
				if err != nil {
					return err
				}
				return printMessage(cmd, a.out, resp.Message)
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Post description")
	cmd.Flags().StringArrayVar(&videos, "video", nil, "Path of an MP4 video (repeatable)")
	return cmd
}

func newPostsFeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				posts, err := a.posts.Feed(ctx, a.session)
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(a.out, posts)
				}
				rows := make([][]string, 0, len(posts))
				for _, p := range posts {
					rows = append(rows, []string{
						orDash(p.AuthorName),
						p.Description,
						strconv.Itoa(len(p.Videos)),
						orDash(p.CreatedAt),
						strings.Join(p.Videos, ","),
					})
				}
				return printTable(a.out, []string{"AUTHOR", "DESCRIPTION", "VIDEOS", "CREATED", "FILES"}, rows)
			})
		},
	}
}
