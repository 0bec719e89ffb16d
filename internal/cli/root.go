// Package cli implements okrctl, the command-line client of the dashboard.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yukikurage/okr-dashboard/internal/client"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	"github.com/yukikurage/okr-dashboard/internal/logging"
)

// annotationRoute tags a command with the client route it stands for. The
// route guard runs before every tagged command.
const annotationRoute = "route"

// routeCommands suggests the command that opens a route.
var routeCommands = map[string]string{
	client.RouteLogin:     "okrctl login",
	client.RouteTask:      "okrctl task list",
	client.RouteDashboard: "okrctl dashboard",
}

type app struct {
	v       *viper.Viper
	cfgFile string
	session *client.Session
	user    *dto.UserDTO
	stdin   *bufio.Reader
}

// NewRootCmd builds the okrctl command tree with its own configuration
// state.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "okrctl",
		Short: "Command-line client for the OKR dashboard",
		Long: `okrctl manages daily tasks and OKR goals on an OKR dashboard server.
Administrators can also manage users, positions and view the dashboard.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.config/okrctl/config.yaml)")
	root.PersistentFlags().String("api-url", "", "dashboard API base URL (default "+DefaultAPIURL+")")
	root.PersistentFlags().String("log-level", "", "client log level: DEBUG, INFO, WARN or ERROR")
	_ = a.v.BindPFlag("api_url", root.PersistentFlags().Lookup("api-url"))
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.meCmd(),
		a.taskCmd(),
		a.goalCmd(),
		a.userCmd(),
		a.positionCmd(),
		a.dashboardCmd(),
		a.settingsCmd(),
		a.profileCmd(),
	)
	return root
}

// setup loads configuration, restores the stored session and applies the
// route guard of the command being run.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(a.v, a.cfgFile); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	c := client.New(a.v.GetString("api_url"), a.v.GetDuration("timeout"))
	c.SetLogger(logging.New(cmd.ErrOrStderr(), a.v.GetString("log_level")))

	session, err := client.NewSession(c, client.NewTokenStore(a.v.GetString("config_dir")))
	if err != nil {
		return err
	}
	a.session = session

	route, ok := cmd.Annotations[annotationRoute]
	if !ok {
		return nil
	}

	user, err := session.Current(cmd.Context())
	if errors.Is(err, client.ErrNotLoggedIn) {
		return fmt.Errorf("%w: run `%s` first", err, routeCommands[client.RouteLogin])
	}
	if err != nil {
		return err
	}
	a.user = user

	if target := client.Guard(route, user); target != route {
		return fmt.Errorf("access denied: %s is for administrators, try `%s`", route, routeCommands[target])
	}
	return nil
}

// guarded tags cmd with route so setup enforces authentication and the
// administrator check.
func guarded(route string, cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationRoute] = route
	return cmd
}

// guardedAll tags every subcommand of parent.
func guardedAll(route string, parent *cobra.Command) *cobra.Command {
	for _, sub := range parent.Commands() {
		guarded(route, sub)
	}
	return parent
}

func (a *app) input(cmd *cobra.Command) *bufio.Reader {
	if a.stdin == nil {
		a.stdin = bufio.NewReader(cmd.InOrStdin())
	}
	return a.stdin
}

// hint prints a guide line when the user has guide tooltips enabled.
func (a *app) hint(w io.Writer, format string, args ...any) {
	if a.user == nil || !a.user.IsInstruct {
		return
	}
	fmt.Fprintln(w, hintStyle.Render("Tip: "+fmt.Sprintf(format, args...)))
}
