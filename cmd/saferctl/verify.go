package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/saferplace/internal/models"
)

func (c *cli) verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a message or recording for harmful content",
	}

	text := &cobra.Command{
		Use:   "text MESSAGE...",
		Short: "Verify a text message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.app.Toxicity.CheckText(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return c.report(cmd, cl)
		},
	}

	audio := &cobra.Command{
		Use:   "audio FILE",
		Short: "Verify an audio recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			contentType := mime.TypeByExtension(filepath.Ext(args[0]))
			cl, err := c.app.Toxicity.CheckAudio(cmd.Context(), args[0], contentType, f)
			if err != nil {
				return err
			}
			return c.report(cmd, cl)
		},
	}

	cmd.AddCommand(text, audio)
	return cmd
}

func (c *cli) report(cmd *cobra.Command, cl models.Classification) error {
	a, err := c.app.Alerts.Evaluate(cmd.Context(), cl)
	if err != nil {
		return err
	}
	c.printf(cmd, "[%s] %s\n%s\n", strings.ToUpper(string(a.Severity)), a.Title, a.Message)
	if cl.Source == "local" {
		c.printf(cmd, "(offline check: the classifier could not be reached)\n")
	}
	if !a.ShowContacts {
		return nil
	}
	if len(a.Contacts) == 0 {
		c.printf(cmd, "No emergency contacts. Add one with: saferctl contacts add NAME PHONE\n")
		return nil
	}
	c.printf(cmd, "Emergency contacts:\n")
	for _, action := range a.Contacts {
		c.printf(cmd, "  %d  %-20s %-8s %s  %s\n", action.Contact.ID, action.Contact.Name, action.Contact.Niveau, action.CallURI, action.SMSURI)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Use 'saferctl contacts call ID' or 'saferctl contacts sms ID'.")
	return nil
}
