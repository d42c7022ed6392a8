package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/NexoraTechHQ/nexora-sub000/authority"
	"github.com/NexoraTechHQ/nexora-sub000/gateway"
	"github.com/NexoraTechHQ/nexora-sub000/internal/config"
	"github.com/NexoraTechHQ/nexora-sub000/navigation"
	"github.com/NexoraTechHQ/nexora-sub000/resources"
	"github.com/NexoraTechHQ/nexora-sub000/routeguard"
	"github.com/NexoraTechHQ/nexora-sub000/session"
	"github.com/NexoraTechHQ/nexora-sub000/sessionstate"
	"github.com/NexoraTechHQ/nexora-sub000/tokenstore"
	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// console bundles everything a command needs.
type console struct {
	log   zerolog.Logger
	nav   *logNavigator
	state *sessionstate.Manager
	guard *routeguard.Guard
	api   *resources.Client
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("NEXORA_CONFIG"))
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	if len(args) == 0 {
		displayAppName(cfg.App.Name)
		printUsage()
		return nil
	}

	store, err := tokenstore.NewFileStore(cfg.Session.DataDir)
	if err != nil {
		return errors.Wrap(err, "open token store")
	}

	sessions, err := session.NewService(store, authority.NewClient(cfg.API.AuthorityURL), session.WithSkew(cfg.Session.Skew))
	if err != nil {
		return errors.Wrap(err, "build session service")
	}

	nav := &logNavigator{log: log, path: navigation.RouteDashboard}

	gw, err := gateway.New(cfg.API.BaseURL, sessions, nav,
		gateway.WithTimeout(cfg.API.RequestTimeout),
		gateway.WithLogger(log),
	)
	if err != nil {
		return errors.Wrap(err, "build gateway")
	}

	api, err := resources.NewClient(gw)
	if err != nil {
		return errors.Wrap(err, "build resource client")
	}

	state, err := sessionstate.NewManager(sessions, nav, sessionstate.WithLogger(log))
	if err != nil {
		return errors.Wrap(err, "build session state")
	}

	guard, err := routeguard.New(store, sessions, routeguard.WithMinLoading(cfg.Session.MinLoading))
	if err != nil {
		return errors.Wrap(err, "build route guard")
	}

	c := &console{log: log, nav: nav, state: state, guard: guard, api: api}
	return c.dispatch(context.Background(), args)
}

func (c *console) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "login":
		return c.login(ctx, args[1:])
	case "logout":
		c.state.Logout()
		c.log.Info().Msg("signed out")
		return nil
	case "whoami":
		return c.whoami(ctx)
	case "visitors":
		return c.withGuard(ctx, func() error {
			visitors, err := c.api.ListVisitors(ctx, resources.ListOptions{Limit: 50})
			if err != nil {
				return err
			}
			for _, v := range visitors {
				fmt.Printf("%-12s %-24s %-20s %s\n", v.ID, v.Name, v.Company, v.Status)
			}
			return nil
		})
	case "appointments":
		return c.withGuard(ctx, func() error {
			appointments, err := c.api.ListAppointments(ctx, resources.ListOptions{Limit: 50})
			if err != nil {
				return err
			}
			for _, a := range appointments {
				fmt.Printf("%-12s %-12s %-20s %s\n", a.ID, a.VisitorID, a.ScheduledAt.Format("2006-01-02 15:04"), a.Status)
			}
			return nil
		})
	case "visitor-logs":
		return c.withGuard(ctx, func() error {
			logs, err := c.api.ListVisitorLogs(ctx, resources.ListOptions{Limit: 50})
			if err != nil {
				return err
			}
			for _, l := range logs {
				fmt.Printf("%-20s %-24s %-10s %s\n", l.Timestamp.Format("2006-01-02 15:04:05"), l.VisitorName, l.Action, l.Gate)
			}
			return nil
		})
	case "access-logs":
		return c.withGuard(ctx, func() error {
			logs, err := c.api.ListAccessLogs(ctx, resources.ListOptions{Limit: 50})
			if err != nil {
				return err
			}
			for _, l := range logs {
				fmt.Printf("%-20s %-24s %-16s %-10s allowed=%t\n", l.Timestamp.Format("2006-01-02 15:04:05"), l.UserName, l.Resource, l.Action, l.Allowed)
			}
			return nil
		})
	case "stats":
		return c.withGuard(ctx, func() error {
			stats, err := c.api.GetDashboardStats(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Total visitors:      %d\n", stats.TotalVisitors)
			fmt.Printf("Active visitors:     %d\n", stats.ActiveVisitors)
			fmt.Printf("Appointments today:  %d\n", stats.AppointmentsToday)
			fmt.Printf("Check-ins today:     %d\n", stats.CheckInsToday)
			return nil
		})
	default:
		printUsage()
		return errors.Errorf("unknown command %q", args[0])
	}
}

func (c *console) login(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: console login <username> <password> [--remember]")
	}
	rememberMe := len(args) > 2 && args[2] == "--remember"

	c.state.Login(ctx, args[0], args[1], rememberMe)

	snap := c.state.Snapshot()
	if snap.Err != "" {
		return errors.New(snap.Err)
	}
	c.log.Info().Str("user", snap.User.Name).Str("role", string(snap.User.Role)).Msg("signed in")
	return nil
}

func (c *console) whoami(ctx context.Context) error {
	c.state.InitAuth(ctx)

	snap := c.state.Snapshot()
	if !snap.Authenticated {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s> (%s, %s)\n", snap.User.Name, snap.User.Email, snap.User.Role, snap.User.Department)
	fmt.Printf("session valid until %s\n", snap.Tokens.ExpiresAt.Format("2006-01-02 15:04:05"))
	return nil
}

// withGuard resolves the route guard before running a protected command.
func (c *console) withGuard(ctx context.Context, command func() error) error {
	result, err := c.guard.Resolve(ctx)
	if err != nil {
		return err
	}
	if !result.Authorized {
		return errors.New("not signed in (run: console login <username> <password>)")
	}
	return command()
}

// logNavigator satisfies the navigation boundary for a terminal console: a
// "redirect" is a logged transition the next command observes.
type logNavigator struct {
	log  zerolog.Logger
	mu   sync.Mutex
	path string
}

var _ navigation.Navigator = (*logNavigator)(nil)

func (n *logNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *logNavigator) NavigateTo(path string) {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()
	n.log.Info().Str("path", path).Msg("navigate")
}

func displayAppName(appName string) {
	appNameFigure := figure.NewFigure(appName, "cybermedium", true)
	appNameFigure.Print()
}

func printUsage() {
	fmt.Println(`Usage: console <command>

Commands:
  login <username> <password> [--remember]   sign in (remember keeps the long session)
  logout                                     sign out and clear stored credentials
  whoami                                     show the current session
  visitors                                   list visitors
  appointments                               list appointments
  visitor-logs                               list gate check-in/check-out events
  access-logs                                list console audit records
  stats                                      show dashboard statistics`)
}
