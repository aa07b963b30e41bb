package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZameerHP/clipscript/internal/app"
	"github.com/ZameerHP/clipscript/internal/library"
)

type SaveOptions struct {
	*RootOptions
	Title       string
	File        string
	ViralTitles []string
	Hashtags    []string
}

func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Spend a credit to save a script to your library",
		Example: `  clipscript save --title "The Lighthouse" --file draft.txt
  cat draft.txt | clipscript save --title "The Lighthouse" --hashtag "#horror"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readContent(cmd, opts.File)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read content", err)
			}
			if strings.TrimSpace(body) == "" {
				return NewExitError(ExitCommandError, "content is empty")
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := currentUser(ctx, a)
				if err != nil {
					return err
				}
				cost := int64(a.Config.Ledger.GenerationCost)
				if cost <= 0 {
					cost = 1
				}
				balance, err := a.Ledger.DebitCredits(ctx, u.ID, cost)
				if err != nil {
					return err
				}
				record, err := a.Library.Save(ctx, u.ID, library.Content{
					Title:       opts.Title,
					Content:     body,
					ViralTitles: opts.ViralTitles,
					Hashtags:    opts.Hashtags,
				})
				if err != nil {
					return err
				}
				if current, err := a.Users.Get(ctx, u.ID); err == nil {
					_ = a.Session.Save(ctx, current)
				}
				data := map[string]any{"record": record, "balance": balance}
				return opts.formatter(cmd).Success(data, func(w io.Writer) {
					fmt.Fprintf(w, "Saved %q (%s). Balance: %d credits.\n", record.Title, record.ID, balance)
				})
			})
		},
	}
	cmd.Flags().StringVar(&opts.Title, "title", "", "title (defaults to Untitled)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "-", "file to read the script from, - for stdin")
	cmd.Flags().StringArrayVar(&opts.ViralTitles, "viral-title", nil, "alternative viral title (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Hashtags, "hashtag", nil, "hashtag (repeatable)")
	return cmd
}

func readContent(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

type LibraryOptions struct {
	*RootOptions
	Show string
}

func NewLibraryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "library",
		Short: "List saved scripts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := currentUser(ctx, a)
				if err != nil {
					return err
				}
				stories, err := a.Library.ListByUser(ctx, u.ID)
				if err != nil {
					return err
				}
				out := opts.formatter(cmd)
				if opts.Show != "" {
					for _, s := range stories {
						if s.ID == opts.Show {
							return out.Success(s, func(w io.Writer) {
								fmt.Fprintf(w, "%s\n\n%s\n", s.Title, s.Content)
								if len(s.Hashtags) > 0 {
									fmt.Fprintf(w, "\n%s\n", strings.Join(s.Hashtags, " "))
								}
							})
						}
					}
					return NewExitError(ExitFailure, fmt.Sprintf("no saved script with id %q", opts.Show))
				}
				return out.Success(stories, func(w io.Writer) {
					if len(stories) == 0 {
						fmt.Fprintln(w, "Your library is empty.")
						return
					}
					for _, s := range stories {
						fmt.Fprintf(w, "%s  %s  %s\n", s.CreatedAt.Local().Format("2006-01-02 15:04"), s.ID, s.Title)
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&opts.Show, "show", "", "print the full script with this id")
	return cmd
}
