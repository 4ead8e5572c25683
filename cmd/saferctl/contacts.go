package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/saferplace/internal/models"
)

func (c *cli) contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "Manage emergency contacts",
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List emergency contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Session.IsAuthenticated() {
				return fmt.Errorf("please log in first")
			}
			contacts := c.app.Contacts.List()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPHONE\tLEVEL")
			for _, ct := range contacts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", ct.ID, ct.Name, ct.Phone, ct.Niveau)
			}
			tw.Flush()
			c.printf(cmd, "%d/%d contacts\n", len(contacts), c.app.Contacts.Max())
			return nil
		},
	}

	var niveau string
	add := &cobra.Command{
		Use:   "add NAME PHONE",
		Short: "Add an emergency contact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := c.app.Contacts.Add(cmd.Context(), models.NewContactRequest{
				Name:   args[0],
				Phone:  args[1],
				Niveau: models.Niveau(niveau),
			})
			if err != nil {
				return err
			}
			c.printf(cmd, "Contact added successfully (id %d).\n", ct.ID)
			return nil
		},
	}
	add.Flags().StringVarP(&niveau, "level", "l", "medium", "priority: high, medium or low")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an emergency contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid contact id %q", args[0])
			}
			if err := c.app.Contacts.Delete(cmd.Context(), id); err != nil {
				return err
			}
			c.printf(cmd, "Contact deleted.\n")
			return nil
		},
	}

	var body string
	call := &cobra.Command{
		Use:   "call ID",
		Short: "Call an emergency contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid contact id %q", args[0])
			}
			_, err = c.app.Alerts.CallContact(cmd.Context(), id)
			return err
		},
	}
	sms := &cobra.Command{
		Use:   "sms ID",
		Short: "Text an emergency contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid contact id %q", args[0])
			}
			_, err = c.app.Alerts.TextContact(cmd.Context(), id, body)
			return err
		},
	}
	sms.Flags().StringVarP(&body, "message", "m", "", "message body (defaults to the help message)")

	cmd.AddCommand(ls, add, rm, call, sms)
	return cmd
}
