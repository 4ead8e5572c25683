package main

import (
	"bufio"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/saferplace/internal/services"
)

func (c *cli) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [QUESTION...]",
		Short: "Talk to the support assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				reply, err := c.app.Chatbot.Ask(cmd.Context(), strings.Join(args, " "))
				c.printf(cmd, "%s\n", reply.Text)
				return err
			}

			// Interactive: one question per line until EOF.
			in := bufio.NewScanner(cmd.InOrStdin())
			c.printf(cmd, "> ")
			for in.Scan() {
				reply, err := c.app.Chatbot.Ask(cmd.Context(), in.Text())
				if err != nil {
					c.log().WithError(err).Debug("chat failed")
				}
				if reply.Text != "" {
					c.printf(cmd, "%s\n", reply.Text)
				}
				c.printf(cmd, "> ")
			}
			c.printf(cmd, "\n")
			return in.Err()
		},
	}
}

func (c *cli) quoteCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Show the message of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			get := c.app.Quotes.Today
			if refresh {
				get = c.app.Quotes.Refresh
			}
			q, err := get(cmd.Context())
			if err != nil {
				c.log().WithError(err).Debug("quote failed")
				return errors.New(services.QuoteErrorText)
			}
			c.printf(cmd, "%s\n\n%s\n", q.Title, q.Content)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "fetch a fresh message")
	return cmd
}

func (c *cli) panicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panic",
		Short: "Sound the alarm and call emergency services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.Emergency.Press(cmd.Context()); err != nil {
				return err
			}
			c.printf(cmd, "Alarm on. Ctrl-C to stop.\n")

			ticker := time.NewTicker(200 * time.Millisecond)
			defer ticker.Stop()
			for c.app.Emergency.Active() {
				select {
				case <-cmd.Context().Done():
					c.app.Emergency.Close()
					return nil
				case <-ticker.C:
				}
			}
			return nil
		},
	}
}

func (c *cli) tutorialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tutorial",
		Short: "How it works",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, p := range services.Tutorial() {
				c.printf(cmd, "%d. %s\n   %s\n", i+1, p.Title, p.Description)
			}
			return nil
		},
	}
}
