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
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/uhppoted-app-sheetview/gsheets"
	"github.com/uhppoted/uhppoted-app-sheetview/registry"
	"github.com/uhppoted/uhppoted-app-sheetview/session"
	"github.com/uhppoted/uhppoted-app-sheetview/web"
)

var RunCmd = Run{
	command: command{
		env:   DEFAULT_ENV,
		debug: false,
	},
	bind: "",
}

type Run struct {
	command
	bind string
}

func (cmd *Run) Name() string {
	return "run"
}

func (cmd *Run) Description() string {
	return "Runs the sheetview web server"
}

func (cmd *Run) Usage() string {
	return "[--env <file>] [--bind <address>]"
}

func (cmd *Run) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] run [--env <file>] [--bind <address>]\n", APP)
	fmt.Println()
	fmt.Println("  Opens the configured workbooks and serves the sign-in page, the workbook listing and the")
	fmt.Println("  worksheet views. Exits with an error if any of the workbooks cannot be opened.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s run --env private/.env --bind 127.0.0.1:8080\n", APP)
	fmt.Println()
}

func (cmd *Run) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("run")

	flagset.StringVar(&cmd.bind, "bind", cmd.bind, "HTTP server address. Overrides HTTP_BIND")

	return flagset
}

func (cmd *Run) Execute(args ...any) error {
	options := args[0].(*Options)

	conf, logger, err := cmd.configure(options)
	if err != nil {
		return err
	}

	defer logger.Sync()

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration (%w)", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ... authorise
	client, err := authorize(context.Background(), conf.Credentials, conf.Tokens, conf.Scopes...)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	// ... open workbooks
	r, err := registry.New(ctx, gsheets.NewGoogleClient(google), conf.WorkbookIDs(), zap.S())
	if err != nil {
		return err
	}

	handler, err := web.NewServer(r, session.NewCookieStore(conf.SecretKey), zap.S())
	if err != nil {
		return err
	}

	bind := conf.HTTP.Bind
	if cmd.bind != "" {
		bind = cmd.bind
	}

	listener, err := listen(bind, conf.HTTP.MaxConnections)
	if err != nil {
		return err
	}

	return serve(ctx, listener, handler)
}

// listen opens the server socket, limited to maxConnections concurrent connections if
// maxConnections is greater than 0.
func listen(bind string, maxConnections int) (net.Listener, error) {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return nil, err
	}

	if maxConnections > 0 {
		return netutil.LimitListener(listener, maxConnections), nil
	}

	return listener, nil
}

// serve runs the HTTP server until the context is cancelled.
func serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errs := make(chan error, 1)

	go func() {
		infof("listening on %v", listener.Addr())
		errs <- srv.Serve(listener)
	}()

	select {
	case err := <-errs:
		return err

	case <-ctx.Done():
		infof("shutting down")
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}

	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
