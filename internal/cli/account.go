package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ZameerHP/clipscript/internal/app"
	"github.com/ZameerHP/clipscript/internal/identity"
	"github.com/ZameerHP/clipscript/internal/users"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	"github.com/ZameerHP/clipscript/pkg/enums"
)

const userAgent = "clipscript-cli"

func clientInfo() users.ClientInfo {
	return users.ClientInfo{Device: runtime.GOOS + "/" + runtime.GOARCH, Agent: userAgent}
}

// currentUser returns the signed-in user or a refusal telling them to log in.
func currentUser(ctx context.Context, a *app.App) (*models.User, error) {
	u, err := a.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewExitError(ExitFailure, "not signed in; run `clipscript login` or `clipscript signup` first")
	}
	return u, nil
}

// signIn caches the user as the current session and prints them.
func signIn(ctx context.Context, a *app.App, out *OutputFormatter, u *models.User, verb string) error {
	if err := a.Session.Save(ctx, u); err != nil {
		return err
	}
	view := u.Sanitized()
	return out.Success(view, func(w io.Writer) {
		fmt.Fprintf(w, "%s as %s <%s>. Balance: %d credits.\n", verb, view.Name, view.Email, view.Credits)
	})
}

type SignupOptions struct {
	*RootOptions
	Email      string
	Name       string
	Password   string
	Profession string
	Country    string
	Referral   string
	Bio        string
	Website    string
}

func NewSignupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignupOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an email account and sign in",
		Example: `  clipscript signup --email demo@example.com --name Demo --password s3cret
  CLIPSCRIPT_PASSWORD=s3cret clipscript signup --email demo@example.com --name Demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := a.Users.Create(ctx, users.CreateInput{
					Email:       opts.Email,
					Name:        opts.Name,
					Password:    passwordOrEnv(opts.Password),
					Provider:    enums.AuthProviderEmail,
					Profession:  opts.Profession,
					Country:     opts.Country,
					Referral:    opts.Referral,
					Bio:         opts.Bio,
					Website:     opts.Website,
					DeviceInfo:  clientInfo().Device,
					BrowserInfo: clientInfo().Agent,
				})
				if err != nil {
					return err
				}
				return signIn(ctx, a, opts.formatter(cmd), u, "Welcome! Signed up")
			})
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (defaults to $CLIPSCRIPT_PASSWORD)")
	cmd.Flags().StringVar(&opts.Profession, "profession", "", "what you create")
	cmd.Flags().StringVar(&opts.Country, "country", "", "country")
	cmd.Flags().StringVar(&opts.Referral, "referral", "", "how you heard about ClipScript")
	cmd.Flags().StringVar(&opts.Bio, "bio", "", "short bio")
	cmd.Flags().StringVar(&opts.Website, "website", "", "website or channel")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := a.Users.Authenticate(ctx, opts.Email, passwordOrEnv(opts.Password), clientInfo())
				if err != nil {
					return err
				}
				return signIn(ctx, a, opts.formatter(cmd), u, "Signed in")
			})
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (defaults to $CLIPSCRIPT_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

type GoogleOptions struct {
	*RootOptions
	Code string
}

func NewGoogleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GoogleOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "google",
		Short: "Continue with Google",
		Long: `Sign in with a Google account.

Run without --code to print the consent URL, then run again with the
authorization code Google redirects back with.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if a.Google == nil {
					return NewExitError(ExitCommandError, "Google sign-in is not configured (set CLIPSCRIPT_GOOGLE_CLIENT_ID and CLIPSCRIPT_GOOGLE_CLIENT_SECRET)")
				}
				out := opts.formatter(cmd)
				if opts.Code == "" {
					state, err := identity.NewState()
					if err != nil {
						return err
					}
					url := a.Google.AuthCodeURL(state)
					return out.Success(map[string]string{"url": url, "state": state}, func(w io.Writer) {
						fmt.Fprintf(w, "Open this URL to continue with Google:\n%s\n", url)
					})
				}
				ident, err := a.Google.Exchange(ctx, opts.Code)
				if err != nil {
					return err
				}
				u, err := a.Users.SignInWithProvider(ctx, ident, clientInfo())
				if err != nil {
					return err
				}
				return signIn(ctx, a, out, u, "Signed in")
			})
		},
	}
	cmd.Flags().StringVar(&opts.Code, "code", "", "authorization code from the Google redirect")
	return cmd
}

func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				cached, err := a.Session.Load(ctx)
				if err != nil {
					return err
				}
				if cached != nil {
					a.Users.SignOut(ctx, cached.ID)
				}
				if err := a.Session.Clear(ctx); err != nil {
					return err
				}
				return rootOpts.formatter(cmd).Success(map[string]bool{"signedOut": cached != nil}, func(w io.Writer) {
					fmt.Fprintln(w, "Signed out.")
				})
			})
		},
	}
}

func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := currentUser(ctx, a)
				if err != nil {
					return err
				}
				return rootOpts.formatter(cmd).Success(u, func(w io.Writer) {
					fmt.Fprintf(w, "%s <%s>\n", u.Name, u.Email)
					fmt.Fprintf(w, "  provider:     %s\n", u.Provider)
					fmt.Fprintf(w, "  credits:      %d\n", u.Credits)
					fmt.Fprintf(w, "  generations:  %d\n", u.TotalGenerations)
					fmt.Fprintf(w, "  member since: %s\n", u.CreatedAt.Format("2006-01-02"))
				})
			})
		},
	}
}

func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	var name, avatar, profession, country, bio, website string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update profile fields",
		Example: `  clipscript profile --bio "I write horror shorts" --country PK`,
		RunE: func(cmd *cobra.Command, args []string) error {
			update := users.ProfileUpdate{}
			flags := cmd.Flags()
			for flag, target := range map[string]**string{
				"name": &update.Name, "avatar": &update.Avatar, "profession": &update.Profession,
				"country": &update.Country, "bio": &update.Bio, "website": &update.Website,
			} {
				if flags.Changed(flag) {
					value, _ := flags.GetString(flag)
					*target = &value
				}
			}
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := currentUser(ctx, a)
				if err != nil {
					return err
				}
				updated, err := a.Users.Update(ctx, u.ID, update)
				if err != nil {
					return err
				}
				if err := a.Session.Save(ctx, updated); err != nil {
					return err
				}
				view := updated.Sanitized()
				return rootOpts.formatter(cmd).Success(view, func(w io.Writer) {
					fmt.Fprintln(w, "Profile updated.")
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	cmd.Flags().StringVar(&profession, "profession", "", "profession")
	cmd.Flags().StringVar(&country, "country", "", "country")
	cmd.Flags().StringVar(&bio, "bio", "", "short bio")
	cmd.Flags().StringVar(&website, "website", "", "website or channel")
	return cmd
}

func passwordOrEnv(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("CLIPSCRIPT_PASSWORD")
}
