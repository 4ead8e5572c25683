// Command saferctl is the terminal client: the same session, contacts and
// verification flows as the app, driven from a shell.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AnshRaj112/saferplace/internal/app"
	"github.com/AnshRaj112/saferplace/internal/config"
	"github.com/AnshRaj112/saferplace/internal/device"
	"github.com/AnshRaj112/saferplace/internal/logger"
	"github.com/AnshRaj112/saferplace/internal/realtime"
)

// cli is the state shared by every subcommand.
type cli struct {
	app       *app.App
	verbose   bool
	in        *bufio.Reader
	stopRelay func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "saferctl",
		Short:         "SaferPlace from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.stopRelay != nil {
				c.stopRelay()
			}
			if c.app != nil {
				c.app.Close()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.contactsCmd(),
		c.verifyCmd(),
		c.chatCmd(),
		c.quoteCmd(),
		c.panicCmd(),
		c.tutorialCmd(),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	_ = godotenv.Load()
	cfg := config.Load()

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "text", File: cfg.LogFile})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	a, err := app.New(cmd.Context(), cfg, log, func(*realtime.Hub) device.Device {
		return device.NewConsole(out)
	})
	if err != nil {
		return err
	}
	c.app = a

	// With a shared Redis, alerts raised here also show up in the app.
	if a.Redis != nil {
		relay := realtime.NewRedisRelay(a.Hub, a.Redis, logger.Component(log, "relay"))
		c.stopRelay = relay.Publish(context.Background())
	}
	return nil
}

func (c *cli) printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func (c *cli) log() *logrus.Entry {
	return logger.Component(c.app.Log, "cli")
}
