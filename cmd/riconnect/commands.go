package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	deliveryhttp "riconnect/internal/delivery/http"
	"riconnect/internal/delivery/http/controllers"
	"riconnect/internal/delivery/http/helpers"
	"riconnect/internal/domain"
	"riconnect/internal/scheduler"
)

type command func(ctx context.Context, a *app, args []string, stdin io.Reader, stdout io.Writer) error

var commands = map[string]command{
	"serve":    serve,
	"login":    login,
	"verify":   verify,
	"feed":     feed,
	"calendar": exportCalendar,
	"logout":   logout,
	"chat":     chatCmd,
}

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context, a *app, _ []string, _ io.Reader, stdout io.Writer) error {
	if err := a.cfg.ValidateServe(); err != nil {
		return err
	}
	deviceKey := a.cfg.DeviceKey
	if deviceKey == "" {
		deviceKey = uuid.NewString()
		fmt.Fprintf(stdout, "device key: %s\n", deviceKey)
	}

	refresher, err := scheduler.NewFeedRefresher(a.feed, a.cfg.FeedRefreshCron, time.Minute, a.logger)
	if err != nil {
		return err
	}
	refresher.Start(ctx)
	defer func() { <-refresher.Stop().Done() }()

	errs := helpers.ErrorWriter{Logger: a.logger, Translator: a.translator, JoinLimit: a.cfg.JoinLimit}
	handler := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Feed:        controllers.NewFeedController(a.logger, a.feed, a.filters, refresher, a.calendar, a.translator, errs),
		Filters:     controllers.NewFilterController(a.filters, errs),
		Events:      controllers.NewEventController(a.logger, a.attendance, a.feed, a.translator, errs),
		Clubs:       controllers.NewClubController(a.clubs, errs),
		Leaderboard: controllers.NewLeaderboardController(a.leaderboard, errs),
		Auth:        controllers.NewAuthController(a.logger, a.auth, errs),
	}, a.verifier, deliveryhttp.RouterOptions{
		CORSOrigins: a.cfg.CORSOrigins,
		DeviceKey:   deviceKey,
	}, a.logger)

	server := &http.Server{
		Addr:              net.JoinHostPort(a.cfg.BindAddr, a.cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", server.Addr, "env", a.cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func login(ctx context.Context, a *app, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	password := os.Getenv("RICONNECT_PASSWORD")
	if password == "" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if err := a.auth.RequestLogin(ctx, args[0], password); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "A login code was sent to", args[0])
	return nil
}

func verify(ctx context.Context, a *app, args []string, _ io.Reader, stdout io.Writer) error {
	if len(args) != 2 {
		return errUsage
	}
	res, err := a.auth.VerifyLogin(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Logged in as %s (%d joined events)\n", args[0], len(res.EventIDs))
	first, err := a.auth.FirstTime()
	if err == nil && first {
		if err := a.auth.MarkOnboarded(); err != nil {
			a.logger.Warn("mark onboarded", "err", err)
		}
	}
	return nil
}

func feed(ctx context.Context, a *app, args []string, _ io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	mine := fs.Bool("mine", false, "show the logged-in user's events classified as live, upcoming and past")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if *mine {
		token, err := a.auth.AccessToken(ctx)
		if err != nil {
			return err
		}
		buckets := a.feed.Mine(ctx, token, time.Now())
		if buckets.Len() == 0 {
			a.logger.Info(a.translator.T(a.cfg.DefaultLocale, domain.MsgNoEventsFound, nil))
		}
		return enc.Encode(buckets)
	}

	events := a.feed.Home(ctx, domain.FilterState{})
	if len(events) == 0 {
		a.logger.Info(a.translator.T(a.cfg.DefaultLocale, domain.MsgNoEventsFound, nil))
	}
	return enc.Encode(events)
}

func exportCalendar(ctx context.Context, a *app, _ []string, _ io.Reader, stdout io.Writer) error {
	token, err := a.auth.AccessToken(ctx)
	if err != nil {
		return err
	}
	out, err := a.calendar.Export("RiConnect", a.feed.MineList(ctx, token))
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}

func logout(ctx context.Context, a *app, _ []string, _ io.Reader, stdout io.Writer) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Logged out")
	return nil
}

func chatCmd(ctx context.Context, a *app, args []string, _ io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	token, err := a.auth.AccessToken(ctx)
	if err != nil {
		return err
	}
	switch args[0] {
	case "send":
		if len(args) < 3 {
			return errUsage
		}
		msg, err := a.chat.Send(ctx, token, args[1], strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "[%s] %s: %s\n", msg.ChatID, msg.SentFrom, msg.Message)
		return nil
	case "listen":
		return a.chat.Listen(ctx, token, func(m domain.ChatMessage) {
			fmt.Fprintf(stdout, "[%s] %s: %s\n", m.ChatID, m.SentFrom, m.Message)
		})
	default:
		return errUsage
	}
}
