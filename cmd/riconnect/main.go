// Command riconnect runs the RiConnect client: a local JSON API for the UI (serve) and
// session, feed and chat commands.
//
//	riconnect serve
//	riconnect login <email>            password from RICONNECT_PASSWORD or stdin
//	riconnect verify <email> <code>
//	riconnect feed [-mine]
//	riconnect calendar
//	riconnect logout
//	riconnect chat send <chat-id> <message...>
//	riconnect chat listen
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"riconnect/config"
)

var errUsage = errors.New("usage: riconnect serve | login <email> | verify <email> <code> | feed [-mine] | calendar | logout | chat send <chat-id> <message> | chat listen")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}

	logger := config.NewLogger()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return cmd(ctx, a, args[1:], stdin, stdout)
}
