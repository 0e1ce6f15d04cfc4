// Command resdeck is a terminal front end for the ResDeck API: the session
// persists in a local file (or Redis) so logins survive between runs, the
// same way the browser client keeps them in local storage.
//
// Usage:
//
//	resdeck login -email alice@example.com -password secret
//	resdeck whoami
//	resdeck list [-search term]
//	resdeck create -name "Style guide" -url https://example.com -description "..."
//	resdeck update -id 42 -name ... -url ... -description ...
//	resdeck delete -id 42
//	resdeck logout
//
// Configuration comes from the environment (a .env file is honored):
//
//	RESDECK_API_URL       API root          (default http://localhost:8000/api)
//	RESDECK_SESSION_FILE  session location  (default ~/.resdeck/session.json)
//	RESDECK_REDIS_URL     use Redis for the session instead of a file
//	LOG_LEVEL, LOG_FORMAT zerolog level and "json"/"pretty"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/resdeck/resdeck"
	"github.com/resdeck/resdeck/forms"
	"github.com/resdeck/resdeck/session"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := loadConfig()
	log := setupLogger(cfg.logLevel, cfg.logFormat)

	client, err := buildClient(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resdeck: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, client, os.Args[1], os.Args[2:]); err != nil {
		renderError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *resdeck.Client, cmd string, args []string) error {
	switch cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		fs.Parse(args)
		u, err := client.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", u.DisplayName(), u.Role)
		return nil

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		in := resdeck.RegisterInput{}
		fs.StringVar(&in.Username, "username", "", "username")
		fs.StringVar(&in.Email, "email", "", "email")
		fs.StringVar(&in.Password, "password", "", "password")
		fs.StringVar(&in.PasswordConfirm, "password-confirm", "", "password confirmation")
		fs.StringVar(&in.FirstName, "first-name", "", "first name")
		fs.StringVar(&in.LastName, "last-name", "", "last name")
		fs.StringVar(&in.Role, "role", "user", "role: admin, staff, or user")
		fs.Parse(args)
		u, err := client.Register(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("registered and logged in as %s (%s)\n", u.Username, u.Role)
		return nil

	case "logout":
		client.Logout(ctx)
		fmt.Println("logged out")
		return nil

	case "whoami":
		u, err := client.ValidateSession(ctx)
		if err != nil {
			return err
		}
		if u == nil {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Printf("%s <%s> role=%s\n", u.DisplayName(), u.Email, u.Role)
		return nil

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		search := fs.String("search", "", "filter by name")
		fs.Parse(args)
		items, err := client.Resources().List(ctx, *search)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("no resources found")
			return nil
		}
		for _, r := range items {
			fmt.Printf("%5d  %-30s  %s\n", r.ID, r.Name, r.URL)
		}
		return nil

	case "get":
		fs := flag.NewFlagSet("get", flag.ExitOnError)
		id := fs.Int64("id", 0, "resource id")
		fs.Parse(args)
		r, err := client.Resources().Get(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s\n%s\n%s\ncreated by %s at %s\n",
			r.ID, r.Name, r.URL, r.Description, r.CreatedBy, r.CreatedAt.Format("2006-01-02 15:04"))
		return nil

	case "create":
		fs := flag.NewFlagSet("create", flag.ExitOnError)
		in := resdeck.ResourceInput{}
		fs.StringVar(&in.Name, "name", "", "resource name")
		fs.StringVar(&in.URL, "url", "", "resource URL")
		fs.StringVar(&in.Description, "description", "", "resource description")
		fs.Parse(args)
		r, err := client.Resources().Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("created resource #%d\n", r.ID)
		return nil

	case "update":
		fs := flag.NewFlagSet("update", flag.ExitOnError)
		id := fs.Int64("id", 0, "resource id")
		in := resdeck.ResourceInput{}
		fs.StringVar(&in.Name, "name", "", "resource name")
		fs.StringVar(&in.URL, "url", "", "resource URL")
		fs.StringVar(&in.Description, "description", "", "resource description")
		fs.Parse(args)
		r, err := client.Resources().Update(ctx, *id, in)
		if err != nil {
			return err
		}
		fmt.Printf("updated resource #%d\n", r.ID)
		return nil

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "resource id")
		fs.Parse(args)
		if err := client.Resources().Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("deleted resource #%d\n", *id)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

type cliConfig struct {
	apiURL      string
	sessionFile string
	redisURL    string
	logLevel    string
	logFormat   string
}

func loadConfig() cliConfig {
	_ = godotenv.Load() // .env is optional

	home, _ := os.UserHomeDir()
	return cliConfig{
		apiURL:      getEnv("RESDECK_API_URL", "http://localhost:8000/api"),
		sessionFile: getEnv("RESDECK_SESSION_FILE", filepath.Join(home, ".resdeck", "session.json")),
		redisURL:    getEnv("RESDECK_REDIS_URL", ""),
		logLevel:    getEnv("LOG_LEVEL", "warn"),
		logFormat:   getEnv("LOG_FORMAT", "pretty"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupLogger(level, format string) zerolog.Logger {
	var writer = os.Stderr
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	if format == "pretty" {
		return zerolog.New(zerolog.ConsoleWriter{Out: writer}).Level(lvl).With().Timestamp().Logger()
	}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

func buildClient(cfg cliConfig, log zerolog.Logger) (*resdeck.Client, error) {
	var backend session.Backend
	if cfg.redisURL != "" {
		opts, err := redis.ParseURL(cfg.redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse RESDECK_REDIS_URL: %w", err)
		}
		backend = session.NewRedisBackend(redis.NewClient(opts), "")
	} else {
		backend = session.NewFileBackend(cfg.sessionFile)
	}

	c := resdeck.DefaultConfig()
	c.BaseURL = cfg.apiURL
	c.Logger = log

	return resdeck.New().
		WithConfig(c).
		WithSessionBackend(backend).
		Build()
}

func renderError(err error) {
	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, msg := range verr.Fields[k] {
				fmt.Fprintf(os.Stderr, "%s: %s\n", k, msg)
			}
		}
	case errors.Is(err, resdeck.ErrReauthenticationRequired):
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	case errors.Is(err, resdeck.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "you do not have permission to do that")
	case errors.Is(err, resdeck.ErrNetworkFailure):
		fmt.Fprintln(os.Stderr, "network error occurred, please try again")
	default:
		fmt.Fprintf(os.Stderr, "resdeck: %v\n", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: resdeck <command> [flags]

commands:
  login     -email -password
  register  -username -email -password -password-confirm [-first-name] [-last-name] [-role]
  logout
  whoami
  list      [-search]
  get       -id
  create    -name -url -description
  update    -id -name -url -description
  delete    -id`)
}
