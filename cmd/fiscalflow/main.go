package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/fiscalflow/client-go/authclient"
	"github.com/fiscalflow/client-go/biometric"
	"github.com/fiscalflow/client-go/credentials"
	"github.com/fiscalflow/client-go/internal/config"
	"github.com/fiscalflow/client-go/session"
	"github.com/fiscalflow/client-go/settings"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const usage = `usage: fiscalflow [flags] <command>

commands:
  login       authenticate with email and password (or --biometric)
  logout      end the current session
  status      show session status and token expiry
  whoami      re-fetch and print the current profile
  register    create a new account
  settings    auto-login|biometric on|off
`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fiscalflow: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	flags := pflag.NewFlagSet("fiscalflow", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to fiscalflow.toml")
	email := flags.String("email", "", "email address for login")
	useBiometric := flags.Bool("biometric", false, "use the biometric unlock path for login")
	verbose := flags.BoolP("verbose", "v", false, "debug logging")
	if err := flags.Parse(args); err != nil {
		return err
	}

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	command := flags.Arg(0)
	if command == "" {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("no command given")
	}

	c, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	env, err := buildEnvironment(ctx, c)
	if err != nil {
		return err
	}

	switch command {
	case "login":
		return cmdLogin(ctx, env, *email, *useBiometric)
	case "logout":
		return cmdLogout(ctx, env)
	case "status":
		return cmdStatus(ctx, env, c.GetAppName())
	case "whoami":
		return cmdWhoami(ctx, env)
	case "register":
		return cmdRegister(ctx, env)
	case "settings":
		return cmdSettings(ctx, env, flags.Args()[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return errors.Errorf("unknown command %q", command)
	}
}

type environment struct {
	client   *authclient.Client
	settings *settings.Store
	manager  *session.Manager
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.New(), nil
}

func buildEnvironment(ctx context.Context, c config.Config) (*environment, error) {
	passphrase := c.GetCredentialsKey()
	if passphrase == "" {
		return nil, errors.New("FISCALFLOW_CREDENTIALS_KEY must be set to unlock the credential store")
	}
	store, err := credentials.NewEncryptedFileStore(c.GetCredentialsFile(), passphrase)
	if err != nil {
		return nil, err
	}

	settingsStore, err := settings.New(store)
	if err != nil {
		return nil, err
	}

	clientOptions := []authclient.Option{
		authclient.WithTimeout(time.Duration(c.GetHTTPTimeoutSeconds()) * time.Second),
	}
	if issuer := c.GetOIDCIssuer(); issuer != "" {
		verifier, err := authclient.NewIDTokenVerifier(ctx, issuer, c.GetOIDCClientID())
		if err != nil {
			return nil, err
		}
		clientOptions = append(clientOptions, authclient.WithIDTokenVerifier(verifier))
	}
	client, err := authclient.New(c.GetAPIBaseURL(), clientOptions...)
	if err != nil {
		return nil, err
	}

	manager, err := session.New(session.Deps{
		Credentials: store,
		Settings:    settingsStore,
		API:         client,
		Binder:      client,
		Gate:        biometric.Unsupported{},
	})
	if err != nil {
		return nil, err
	}

	return &environment{client: client, settings: settingsStore, manager: manager}, nil
}

func cmdLogin(ctx context.Context, env *environment, email string, useBiometric bool) error {
	status := env.manager.Bootstrap(ctx)
	if status == session.StatusAuthenticated {
		printUser(env.manager.Current())
		return nil
	}

	if useBiometric {
		outcome, err := env.manager.LoginWithBiometrics(ctx)
		if err != nil {
			return err
		}
		if outcome != biometric.OutcomeAuthenticated {
			return errors.Errorf("biometric login %s, use password login instead", outcome)
		}
		printUser(env.manager.Current())
		return nil
	}

	if email == "" {
		var err error
		email, err = promptLine("email: ")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("password: ")
	if err != nil {
		return err
	}

	if err := env.manager.Login(ctx, email, password); err != nil {
		return err
	}
	printUser(env.manager.Current())
	return nil
}

func cmdLogout(ctx context.Context, env *environment) error {
	env.manager.Bootstrap(ctx)
	env.manager.Logout(ctx)
	fmt.Println("logged out")
	return nil
}

func cmdStatus(ctx context.Context, env *environment, appName string) error {
	figure.NewFigure(appName, "cybermedium", true).Print()
	fmt.Println()

	status := env.manager.Bootstrap(ctx)
	fmt.Printf("session: %s\n", status)

	autoLogin, err := env.settings.AutoLogin(ctx)
	if err != nil {
		return err
	}
	biometricLogin, err := env.settings.BiometricLogin(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("auto-login: %t\nbiometric login: %t\n", autoLogin, biometricLogin)

	if status == session.StatusAuthenticated {
		if oauthToken, err := env.manager.Token(); err == nil && !oauthToken.Expiry.IsZero() {
			fmt.Printf("token expires: %s\n", oauthToken.Expiry.Format(time.RFC3339))
		}
		if env.manager.TokenExpired() {
			fmt.Println("token expired, next request will fail until refreshed")
		}
		printUser(env.manager.Current())
	}
	return nil
}

func cmdWhoami(ctx context.Context, env *environment) error {
	if env.manager.Bootstrap(ctx) != session.StatusAuthenticated {
		return errors.New("not logged in")
	}
	if !env.manager.RefreshUser(ctx) {
		return errors.New("could not fetch profile, try again")
	}
	printUser(env.manager.Current())
	return nil
}

func cmdRegister(ctx context.Context, env *environment) error {
	name, err := promptLine("name: ")
	if err != nil {
		return err
	}
	email, err := promptLine("email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("password: ")
	if err != nil {
		return err
	}
	if err := env.client.Register(ctx, name, email, password); err != nil {
		return err
	}
	fmt.Println("account created, log in with `fiscalflow login`")
	return nil
}

func cmdSettings(ctx context.Context, env *environment, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: fiscalflow settings <auto-login|biometric> <on|off>")
	}
	enabled := args[1] == "on"

	switch args[0] {
	case "auto-login":
		if err := env.settings.SetAutoLogin(ctx, enabled); err != nil {
			return err
		}
	case "biometric":
		if err := env.settings.SetBiometricLogin(ctx, enabled); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown setting %q", args[0])
	}
	fmt.Printf("%s: %t\n", args[0], enabled)
	return nil
}

func printUser(current session.Session) {
	if current.User == nil {
		return
	}
	fmt.Printf("logged in as %s <%s> (id %d)\n", current.User.Name, current.User.Email, current.User.ID)
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "read input")
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(password), nil
}
