package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var AuthoriseCmd = Authorise{
	credentials: "",
	tokens:      "",
	scope:       SHEETS + ".readonly",
	bind:        "127.0.0.1:8081",
	debug:       false,
}

type Authorise struct {
	credentials string
	tokens      string
	scope       string
	bind        string
	debug       bool
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises uhppoted-app-sheetview to access Google Sheets with OAuth2 client credentials"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options] --credentials <file>\n", APP)
	fmt.Println()
	fmt.Println("  Authorises uhppoted-app-sheetview to access Google Sheets on behalf of a Google account and")
	fmt.Println("  stores the OAuth2 tokens for use by the 'run' and 'get' commands. Not required for service")
	fmt.Println("  account credentials.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    uhppoted-app-sheetview authorise --credentials "private/credentials.json"`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("authorise", flag.ExitOnError)

	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the OAuth2 client 'credentials.json' file")
	flagset.StringVar(&cmd.tokens, "tokens", cmd.tokens, "Path for the tokens file. Defaults to <credentials>.tokens")
	flagset.StringVar(&cmd.scope, "scope", cmd.scope, "OAuth2 scope (space separated for multiple scopes)")
	flagset.StringVar(&cmd.bind, "bind", cmd.bind, "Local address for the OAuth2 redirect")

	return flagset
}

func (cmd *Authorise) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	scopes := strings.Fields(cmd.scope)
	if len(scopes) == 0 {
		return fmt.Errorf("--scope is a required option")
	}

	for _, scope := range scopes {
		if !strings.HasPrefix(scope, SHEETS) && !strings.HasPrefix(scope, DRIVE) {
			return fmt.Errorf("invalid scope '%v' - expected a Google Sheets or Google Drive scope", scope)
		}
	}

	tokens := cmd.tokens
	if tokens == "" {
		tokens = tokensFile(cmd.credentials)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	token, err := cmd.authenticate(ctx, scopes)
	if err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	if err := saveToken(tokens, token); err != nil {
		return err
	}

	fmt.Printf("Saved OAuth2 tokens to %s\n", tokens)

	return nil
}

// authenticate runs the OAuth2 authorisation code flow with a redirect to a local HTTP server.
func (cmd *Authorise) authenticate(ctx context.Context, scopes []string) (*oauth2.Token, error) {
	b, err := os.ReadFile(cmd.credentials)
	if err != nil {
		return nil, err
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", cmd.bind)
	if err != nil {
		return nil, err
	}

	config.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr())

	state := uuid.NewString()
	authorised := make(chan string, 1)
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, rq *http.Request) {
		if cmd.debug {
			fmt.Printf("RQ:  %+v\n", rq.URL)
		}

		if rq.FormValue("state") != state {
			http.Error(w, "Invalid OAuth2 state", http.StatusBadRequest)
			return
		}

		if e := rq.FormValue("error"); e != "" {
			http.Error(w, fmt.Sprintf("Authorisation failed (%v)", e), http.StatusForbidden)
			return
		}

		code := rq.FormValue("code")
		if code == "" {
			http.Error(w, "Missing authorisation code", http.StatusBadRequest)
			return
		}

		fmt.Fprintln(w, "uhppoted-app-sheetview has been authorised - you can close this window.")

		select {
		case authorised <- code:
		default:
		}
	})

	srv := &http.Server{
		Handler: mux,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			warnf("%v", err)
		}
	}()

	defer srv.Shutdown(context.Background())

	fmt.Println()
	fmt.Println("Open the following link in your browser to authorise uhppoted-app-sheetview:")
	fmt.Println()
	fmt.Printf("  %v\n", config.AuthCodeURL(state, oauth2.AccessTypeOffline))
	fmt.Println()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("cancelled")

	case code := <-authorised:
		return config.Exchange(ctx, code)
	}
}
