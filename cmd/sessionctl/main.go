// Command sessionctl drives a Session Manager from the terminal: it logs in
// against the backend, persists the session under the session directory and
// manages users through the admin API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-session-client/api"
	"github.com/jrsteele09/go-session-client/httpclient"
	"github.com/jrsteele09/go-session-client/internal/config"
	"github.com/jrsteele09/go-session-client/internal/logging"
	"github.com/jrsteele09/go-session-client/sessions"
	"github.com/jrsteele09/go-session-client/storage/filestore"
	"github.com/jrsteele09/go-session-client/users"
)

var (
	version = "dev"
	commit  = "none"
)

const passwordEnv = "SESSIONCTL_PASSWORD"

type cliConfig struct {
	configPath string
	server     string
	jsonOutput bool
}

// app is everything a command needs, built once from config
type app struct {
	cfg     cliConfig
	out     io.Writer
	session *sessions.Manager
	users   *api.UserService
}

func main() {
	err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, errShowUsage) {
		printUsage(os.Stdout)
		if len(os.Args) == 1 {
			os.Exit(1)
		}
		return
	}
	if err != nil {
		fatal(err)
	}
}

// run executes one command. The session is closed before it returns.
func run(argv []string, out io.Writer) error {
	cfg, command, args, err := parseArgs(argv)
	if err != nil {
		return err
	}

	switch command {
	case "version":
		fmt.Fprintf(out, "sessionctl %s (commit: %s)\n", version, commit)
		return nil
	case "help":
		printUsage(out)
		return nil
	}

	a, err := newApp(cfg, out)
	if err != nil {
		return err
	}
	defer a.session.Close()

	ctx := context.Background()
	a.session.Restore(ctx)

	switch command {
	case "login":
		return a.runLogin(ctx, args)
	case "signup":
		return a.runSignup(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		return nil
	case "whoami":
		return a.runWhoami()
	case "status":
		return a.runStatus()
	case "users":
		return a.runUsers(ctx, args)
	}
	return fmt.Errorf("unknown command: %s", command)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

var errShowUsage = errors.New("show usage")

func parseArgs(args []string) (cliConfig, string, []string, error) {
	var cfg cliConfig

	idx := 0
	for idx < len(args) {
		arg := args[idx]
		if !strings.HasPrefix(arg, "-") {
			break
		}
		switch arg {
		case "--help", "-h":
			return cfg, "", nil, errShowUsage
		case "--config", "-c":
			if idx+1 >= len(args) {
				return cfg, "", nil, fmt.Errorf("--config requires a value")
			}
			cfg.configPath = args[idx+1]
			idx += 2
		case "--server", "-s":
			if idx+1 >= len(args) {
				return cfg, "", nil, fmt.Errorf("--server requires a value")
			}
			cfg.server = args[idx+1]
			idx += 2
		case "--json":
			cfg.jsonOutput = true
			idx++
		default:
			return cfg, "", nil, fmt.Errorf("unknown flag: %s", arg)
		}
	}

	if idx >= len(args) {
		return cfg, "", nil, errShowUsage
	}
	return cfg, args[idx], args[idx+1:], nil
}

func printUsage(out io.Writer) {
	fmt.Fprint(out, `Usage: sessionctl [--config <file>] [--server <url>] [--json] <command>

Commands:
  login <email> [password]           Sign in (password may come from ` + passwordEnv + `)
  signup <name> <email> <password> [role]
                                     Create an account
  logout                             End the persisted session
  whoami                             Show the signed-in user
  status                             Show the session state and time left
  users list [--role <role>] [--skip N] [--limit N]
  users get <id>
  users role <id> <role>
  users delete <id>
  version
`)
}

func newApp(cli cliConfig, out io.Writer) (*app, error) {
	cfg, err := config.Load(cli.configPath)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.GetLogLevel(), cfg.GetEnv(), os.Stderr)

	store, err := filestore.New(cfg.GetSessionDir())
	if err != nil {
		return nil, err
	}

	baseURL := cfg.GetBaseURL()
	if cli.server != "" {
		baseURL = strings.TrimRight(cli.server, "/")
	}
	client := httpclient.New(baseURL, httpclient.WithTimeout(cfg.GetRequestTimeout()))

	opts, err := sessions.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	nav := sessions.NavigatorFunc(func(_ context.Context, destination string) {
		fmt.Fprintf(os.Stderr, "-> %s\n", destination)
	})

	session := sessions.New(client, store, nav, opts...)
	return &app{
		cfg:     cli,
		out:     out,
		session: session,
		users:   api.NewUserService(client, session),
	}, nil
}

func (a *app) runLogin(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: sessionctl login <email> [password]")
	}
	password := os.Getenv(passwordEnv)
	if len(args) == 2 {
		password = args[1]
	}

	user, err := a.session.Login(ctx, args[0], password)
	if err != nil {
		return err
	}
	if a.cfg.jsonOutput {
		return PrintJSON(a.out, user)
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", user.Email, user.Role)
	return nil
}

func (a *app) runSignup(ctx context.Context, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("usage: sessionctl signup <name> <email> <password> [role]")
	}
	var role users.RoleType
	if len(args) == 4 {
		r, err := users.ParseRole(args[3])
		if err != nil {
			return err
		}
		role = r
	}

	user, err := a.session.Signup(ctx, args[0], args[1], args[2], role)
	if err != nil {
		return err
	}
	if a.cfg.jsonOutput {
		return PrintJSON(a.out, user)
	}
	fmt.Fprintf(a.out, "Created account %d for %s, sign in to continue\n", user.ID, user.Email)
	return nil
}

func (a *app) runWhoami() error {
	user := a.session.User()
	if user == nil {
		return fmt.Errorf("not signed in")
	}
	if a.cfg.jsonOutput {
		return PrintJSON(a.out, user)
	}
	RenderTable(a.out, []string{"FIELD", "VALUE"}, [][]string{
		{"ID", strconv.FormatInt(user.ID, 10)},
		{"Name", user.Name},
		{"Email", user.Email},
		{"Role", user.Role.String()},
		{"Active", strconv.FormatBool(user.IsActive)},
	})
	return nil
}

func (a *app) runStatus() error {
	countdown, soon := a.session.Countdown()
	if a.cfg.jsonOutput {
		return PrintJSON(a.out, map[string]any{
			"state":      a.session.State().String(),
			"expires_at": a.session.ExpiresAt(),
			"time_left":  countdown,
		})
	}

	left := countdown
	if soon {
		left = ansiYellow + countdown + ansiReset
	}
	RenderTable(a.out, []string{"STATE", "TIME LEFT"}, [][]string{
		{a.session.State().String(), dash(left)},
	})
	return nil
}

func (a *app) runUsers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: sessionctl users <list|get|role|delete>")
	}
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not signed in")
	}

	switch args[0] {
	case "list":
		return a.runUsersList(ctx, args[1:])
	case "get":
		id, err := parseID(args[1:], 1)
		if err != nil {
			return err
		}
		user, err := a.users.Get(ctx, id)
		if err != nil {
			return err
		}
		return a.printUsers([]users.Record{*user})
	case "role":
		id, err := parseID(args[1:], 2)
		if err != nil {
			return err
		}
		role, err := users.ParseRole(args[2])
		if err != nil {
			return err
		}
		user, err := a.users.UpdateRole(ctx, id, role)
		if err != nil {
			return err
		}
		return a.printUsers([]users.Record{*user})
	case "delete":
		id, err := parseID(args[1:], 1)
		if err != nil {
			return err
		}
		if err := a.users.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted user %d\n", id)
		return nil
	default:
		return fmt.Errorf("unknown users subcommand: %s", args[0])
	}
}

func (a *app) runUsersList(ctx context.Context, args []string) error {
	var (
		role        users.RoleType
		skip, limit int
	)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			return fmt.Errorf("%s requires a value", args[i])
		}
		var err error
		switch args[i] {
		case "--role":
			role, err = users.ParseRole(args[i+1])
		case "--skip":
			skip, err = strconv.Atoi(args[i+1])
		case "--limit":
			limit, err = strconv.Atoi(args[i+1])
		default:
			err = fmt.Errorf("unknown flag: %s", args[i])
		}
		if err != nil {
			return err
		}
	}

	var (
		list []users.Record
		err  error
	)
	if role != "" {
		list, err = a.users.ListByRole(ctx, role, skip, limit)
	} else {
		list, err = a.users.List(ctx, skip, limit)
	}
	if err != nil {
		return err
	}
	return a.printUsers(list)
}

func (a *app) printUsers(list []users.Record) error {
	if a.cfg.jsonOutput {
		return PrintJSON(a.out, list)
	}
	rows := make([][]string, 0, len(list))
	for _, u := range list {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			Truncate(u.Name, 24),
			u.Email,
			u.Role.String(),
			strconv.FormatBool(u.IsActive),
			FormatTimeOrDash(u.CreatedAt.Time),
		})
	}
	RenderTable(a.out, []string{"ID", "NAME", "EMAIL", "ROLE", "ACTIVE", "CREATED"}, rows)
	return nil
}

// parseID reads the id from args[0] and checks that exactly want args were given
func parseID(args []string, want int) (int64, error) {
	if len(args) != want {
		return 0, fmt.Errorf("expected %d argument(s), got %d", want, len(args))
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", args[0])
	}
	return id, nil
}
