package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/nhle/workstatus/internal/app"
	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/server"
	"github.com/nhle/workstatus/internal/source"
	"github.com/nhle/workstatus/internal/status"
	"github.com/nhle/workstatus/internal/ui/login"
	"github.com/nhle/workstatus/internal/ui/render"
	"github.com/nhle/workstatus/internal/ui/watch"
)

const usage = `workstatus answers status questions about issues, sprints and pull requests.

Usage:
  workstatus serve [--addr :8080]
  workstatus issue KEY
  workstatus sprint PROJECT
  workstatus pr OWNER/REPO NUMBER | PR_URL
  workstatus search QUERY...
  workstatus watch OWNER/REPO NUMBER | PR_URL
  workstatus login
  workstatus logout
  workstatus diagnostics [--limit 20]

Flags:
  --config PATH   config file (default ~/.config/workstatus/config.yaml)
  --json          print raw JSON records
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// options are the flags shared by every command.
type options struct {
	configPath string
	json       bool
	addr       string
	limit      int
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(out, usage)
		return nil
	}
	cmd, rest := args[0], args[1:]

	var opts options
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "config file")
	fs.BoolVar(&opts.json, "json", false, "print raw JSON records")
	fs.StringVar(&opts.addr, "addr", "", "listen address (serve)")
	fs.IntVar(&opts.limit, "limit", 20, "number of entries (diagnostics)")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	pos := fs.Args()

	a, err := app.New(opts.configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Warn("shutdown", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		return serve(ctx, a, opts)
	case "issue":
		if len(pos) != 1 {
			return errors.New("usage: workstatus issue KEY")
		}
		issue, err := a.Service.IssueStatus(ctx, pos[0])
		return emit(out, opts, issue, err, func() string { return render.Issue(issue) })
	case "sprint":
		if len(pos) != 1 {
			return errors.New("usage: workstatus sprint PROJECT")
		}
		sp, err := a.Service.SprintStatus(ctx, pos[0])
		return emit(out, opts, sp, err, func() string { return render.Sprint(sp) })
	case "pr":
		repo, number, err := parsePRArgs(pos)
		if err != nil {
			return err
		}
		pr, err := a.Service.PRStatus(ctx, repo, number)
		return emit(out, opts, pr, err, func() string { return render.PRStatus(pr) })
	case "search":
		if len(pos) == 0 {
			return errors.New("usage: workstatus search QUERY...")
		}
		hits, err := a.Service.SearchPRs(ctx, strings.Join(pos, " "))
		return emit(out, opts, hits, err, func() string { return render.SearchHits(hits) })
	case "watch":
		repo, number, err := parsePRArgs(pos)
		if err != nil {
			return err
		}
		return watchPR(a, repo, number)
	case "login":
		return runLogin(ctx, a, out)
	case "logout":
		return runLogout(a, out)
	case "diagnostics":
		return diagnostics(ctx, a, opts, out)
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// emit prints a query result as JSON or as rendered text. Configuration
// faults get their remediation on a line of their own.
func emit(out io.Writer, opts options, v any, err error, text func() string) error {
	if err != nil {
		var cfgErr *source.ConfigError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("%s is not configured\n  %s", cfgErr.Key, cfgErr.Remediation)
		}
		return err
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, werr := fmt.Fprintln(out, text())
	return werr
}

// parsePRArgs accepts either a pull request URL or OWNER/REPO NUMBER.
func parsePRArgs(args []string) (string, int, error) {
	switch len(args) {
	case 1:
		ref, err := status.ParsePullRequestURL(args[0])
		if err != nil {
			return "", 0, err
		}
		return ref.FullName(), ref.Number, nil
	case 2:
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return "", 0, fmt.Errorf("pull request number must be a positive integer, got %q", args[1])
		}
		return args[0], n, nil
	default:
		return "", 0, errors.New("expected OWNER/REPO NUMBER or a pull request URL")
	}
}

func serve(ctx context.Context, a *app.App, opts options) error {
	addr := a.Config.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	router := server.NewRouter(a.Service, a.Actions, a.Logger, a.RequestTimeout())
	srv := server.NewHTTPServer(addr, router, a.RequestTimeout(), a.Logger)
	return srv.Run(ctx)
}

func watchPR(a *app.App, repo string, number int) error {
	fetch := func(ctx context.Context) (*model.PRStatus, error) {
		return a.Service.PRStatus(ctx, repo, number)
	}

	m := watch.New(fmt.Sprintf("%s#%d", repo, number), fetch, a.WatchInterval())
	_, err := tea.NewProgram(m).Run()
	return err
}

func runLogin(ctx context.Context, a *app.App, out io.Writer) error {
	values := login.NewValues(a.Config)
	if err := login.Form(values).Run(); err != nil {
		return err
	}
	if err := login.Save(values, a.Config, a.ConfigPath, a.Credentials); err != nil {
		return err
	}
	fmt.Fprintf(out, "saved %s\n", a.ConfigPath)

	// Adapters were built from the old URLs; rebuild before checking.
	fresh, err := app.New(a.ConfigPath)
	if err != nil {
		return err
	}
	defer fresh.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var failed bool
	checks := login.Verify(checkCtx, fresh.Jira, fresh.GitHub)
	for _, c := range checks {
		if c.Err != nil {
			failed = true
			fmt.Fprintf(out, "%-7s FAILED  %v\n", c.Source, c.Err)
			continue
		}
		fmt.Fprintf(out, "%-7s ok      signed in as %s\n", c.Source, c.Account)
	}
	if failed {
		return errors.New("one or more connections failed")
	}
	return nil
}

func runLogout(a *app.App, out io.Writer) error {
	removed, err := login.Forget(a.Credentials, a.Config.Jira.CredentialKey, a.Config.GitHub.CredentialKey)
	for _, key := range removed {
		fmt.Fprintf(out, "removed %s\n", key)
	}
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Fprintln(out, "no stored credentials")
	}
	return nil
}

func diagnostics(ctx context.Context, a *app.App, opts options, out io.Writer) error {
	if a.Journal == nil {
		return errors.New("diagnostics journal is disabled (diagnostics.db_path is empty)")
	}

	queries, err := a.Journal.RecentQueries(ctx, opts.limit)
	if err != nil {
		return err
	}
	failures, err := a.Journal.RecentSoftFailures(ctx, opts.limit)
	if err != nil {
		return err
	}

	report := struct {
		Queries      []model.QueryRecord       `json:"queries"`
		SoftFailures []model.SoftFailureRecord `json:"softFailures"`
	}{queries, failures}
	return emit(out, opts, report, nil, func() string {
		return render.Diagnostics(queries, failures)
	})
}
