package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZameerHP/clipscript/internal/activity"
	"github.com/ZameerHP/clipscript/internal/app"
	"github.com/ZameerHP/clipscript/internal/studio"
	"github.com/ZameerHP/clipscript/pkg/enums"
	"github.com/ZameerHP/clipscript/pkg/metrics"
)

type packageView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Price   string `json:"price"`
	Credits int64  `json:"credits"`
	Badge   string `json:"badge,omitempty"`
}

func viewPackage(p studio.Package) packageView {
	return packageView{ID: p.ID, Name: p.Name, Price: p.Price.StringFixed(2), Credits: p.Credits, Badge: p.Badge}
}

func NewPackagesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "packages",
		Short: "List credit packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			var views []packageView
			for _, p := range studio.Catalog() {
				views = append(views, viewPackage(p))
			}
			return rootOpts.formatter(cmd).Success(views, func(w io.Writer) {
				for _, v := range views {
					line := fmt.Sprintf("%-3s %-10s $%-6s %5d credits", v.ID, v.Name, v.Price, v.Credits)
					if v.Badge != "" {
						line += "  (" + v.Badge + ")"
					}
					fmt.Fprintln(w, line)
				}
			})
		},
	}
}

func NewBuyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <package>",
		Short: "Buy a credit package",
		Example: `  clipscript buy p2
  clipscript buy producer`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := currentUser(ctx, a)
				if err != nil {
					return err
				}
				receipt, err := a.Studio.Purchase(ctx, u.ID, args[0])
				if err != nil {
					return err
				}
				u.Credits = receipt.Balance
				if err := a.Session.Save(ctx, u); err != nil {
					return err
				}
				data := map[string]any{
					"package":     viewPackage(receipt.Package),
					"externalRef": receipt.ExternalRef,
					"balance":     receipt.Balance,
				}
				return rootOpts.formatter(cmd).Success(data, func(w io.Writer) {
					fmt.Fprintf(w, "Payment successful (%s). Added %d credits; balance is now %d.\n",
						receipt.ExternalRef, receipt.Package.Credits, receipt.Balance)
				})
			})
		},
	}
}

type HistoryOptions struct {
	*RootOptions
	Actions []string
}

type entryView struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
	Metadata  any       `json:"metadata,omitempty"`
}

func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show account activity, newest first",
		Example: `  clipscript history
  clipscript history --action purchase --action generate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var actions []enums.ActivityAction
			for _, raw := range opts.Actions {
				action, err := enums.ParseActivityAction(raw)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid --action", err)
				}
				actions = append(actions, action)
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := currentUser(ctx, a)
				if err != nil {
					return err
				}
				entries, err := a.Recorder.List(ctx, u.ID, actions...)
				if err != nil {
					return err
				}
				views := make([]entryView, 0, len(entries))
				for _, e := range entries {
					views = append(views, viewEntry(e))
				}
				return opts.formatter(cmd).Success(views, func(w io.Writer) {
					if len(views) == 0 {
						fmt.Fprintln(w, "No activity yet.")
						return
					}
					for _, v := range views {
						fmt.Fprintf(w, "%s  %-14s %s\n", v.CreatedAt.Local().Format("2006-01-02 15:04"), v.Action, v.Details)
					}
				})
			})
		},
	}
	cmd.Flags().StringSliceVar(&opts.Actions, "action", nil, "only show these actions (repeatable)")
	return cmd
}

func viewEntry(e activity.Entry) entryView {
	return entryView{ID: e.ID, Action: string(e.Action), Details: e.Details, CreatedAt: e.CreatedAt, Metadata: e.Metadata}
}

func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show account totals and store counters for this run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := currentUser(ctx, a)
				if err != nil {
					return err
				}
				stories, err := a.Library.ListByUser(ctx, u.ID)
				if err != nil {
					return err
				}
				samples, err := metrics.Snapshot(a.Registry)
				if err != nil {
					return err
				}
				data := map[string]any{
					"credits":     u.Credits,
					"generations": u.TotalGenerations,
					"saved":       len(stories),
					"metrics":     samples,
				}
				return rootOpts.formatter(cmd).Success(data, func(w io.Writer) {
					fmt.Fprintf(w, "credits: %d  generations: %d  saved: %d\n", u.Credits, u.TotalGenerations, len(stories))
					for _, s := range samples {
						name := s.Name
						if s.Labels != "" {
							name += "{" + s.Labels + "}"
						}
						fmt.Fprintf(w, "  %s %s\n", name, strconv.FormatFloat(s.Value, 'f', -1, 64))
					}
				})
			})
		},
	}
}
