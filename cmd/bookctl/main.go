package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"medicare/client"

	"github.com/spf13/cobra"
)

var apiURL string

func main() {
	rootCmd := &cobra.Command{
		Use:           "bookctl",
		Short:         "Book and manage clinic appointments from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("MEDICARE_API_URL", "http://localhost:5000/api"), "booking API base URL")

	rootCmd.AddCommand(slotsCmd())
	rootCmd.AddCommand(bookCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(allCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(deleteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", client.UserMessage(err))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func api() client.BookingAPI {
	return client.NewHTTPBookingAPI(apiURL)
}

func slotsCmd() *cobra.Command {
	var doctor string
	cmd := &cobra.Command{
		Use:   "slots DATE",
		Short: "Show open times for a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			av, err := api().Availability(cmd.Context(), args[0], doctor)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Booked:    %s\n", joinOrDash(av.Booked))
			fmt.Fprintf(out, "Available: %s\n", joinOrDash(av.Available))
			return nil
		},
	}
	cmd.Flags().StringVar(&doctor, "doctor", "", "limit to one doctor")
	return cmd
}

// bookCmd walks the slot picker interactively on stdin.
func bookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "book",
		Short: "Book an appointment step by step",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker(cmd.Context(), client.NewPicker(api()), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runPicker(ctx context.Context, p *client.Picker, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	ask := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		switch p.Step() {
		case client.StepSelectingSlot:
			date, ok := ask("Date (YYYY-MM-DD): ")
			if !ok {
				return nil
			}
			if err := p.SelectDate(ctx, date); err != nil && len(p.Slots()) == 0 {
				fmt.Fprintln(out, client.UserMessage(err))
				continue
			}
			if msg := p.Message(); msg != "" {
				fmt.Fprintln(out, msg)
			}
			fmt.Fprintf(out, "Open times: %s\n", joinOrDash(p.Slots()))
			t, ok := ask("Time: ")
			if !ok {
				return nil
			}
			if err := p.SelectTime(t); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if err := p.Next(ctx); err != nil {
				fmt.Fprintln(out, err)
			}

		case client.StepSelectingService:
			doctor, ok := choose(ask, out, "Doctor", p.Doctors())
			if !ok {
				return nil
			}
			service, ok := choose(ask, out, "Service", p.Services())
			if !ok {
				return nil
			}
			if err := p.SelectDoctor(doctor); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if err := p.SelectService(service); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if err := p.Next(ctx); err != nil {
				fmt.Fprintln(out, err)
			}

		case client.StepEnteringDetails:
			if msg := p.Message(); msg != "" {
				fmt.Fprintln(out, msg)
				if answer, _ := ask("Go back to pick another time? [y/N]: "); strings.EqualFold(answer, "y") {
					_ = p.Back()
					_ = p.Back()
					continue
				}
			}
			name, _ := ask("Name: ")
			email, _ := ask("Email: ")
			phone, _ := ask("Contact number: ")
			notes, ok := ask("Notes (optional): ")
			if !ok {
				return nil
			}
			if err := p.SetDetails(name, email, phone, notes); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if err := p.Next(ctx); err != nil {
				var apiErr *client.APIError
				if !errors.As(err, &apiErr) {
					fmt.Fprintln(out, err)
				}
				continue
			}
			if o := p.LastOutcome(); o != nil && o.Appointment != nil {
				fmt.Fprintf(out, "%s Reference %s on %s at %s.\n", o.Message(), o.Appointment.ID, o.Appointment.Date, o.Appointment.Time)
			}
			return nil

		default:
			return nil
		}
	}
}

func choose(ask func(string) (string, bool), out io.Writer, label string, options []string) (string, bool) {
	for i, o := range options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, o)
	}
	answer, ok := ask(label + ": ")
	if !ok {
		return "", false
	}
	var n int
	if _, err := fmt.Sscanf(answer, "%d", &n); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	return answer, true
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list EMAIL",
		Short: "List appointments booked with an email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appts, err := api().ListByEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTIME\tDOCTOR\tSERVICE\tSTATUS")
			for _, a := range appts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Date, a.Time, a.DoctorID, a.ServiceType, a.Status)
			}
			return w.Flush()
		},
	}
}

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Dump every appointment as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			appts, err := api().ListAll(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(appts)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change an appointment's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			appt, err := api().UpdateStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", appt.ID, appt.Status)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Permanently delete an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func joinOrDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, " ")
}
