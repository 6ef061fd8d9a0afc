package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Event commands",
	}

	cmd.AddCommand(newEventListCmd())
	cmd.AddCommand(newEventGetCmd())
	cmd.AddCommand(newEventCreateCmd())
	cmd.AddCommand(newEventUpdateCmd())
	cmd.AddCommand(newEventDeleteCmd())
	cmd.AddCommand(newEventParticipantsCmd())
	cmd.AddCommand(newEventPendingCmd())
	cmd.AddCommand(newEventEligibilityCmd())

	return cmd
}

func newEventListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List upcoming events, soonest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result EventList

			if err := client.Get(cmd.Context(), "/api/v1/events", &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newEventGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <event-id>",
		Short: "Get event details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result EventDetail

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/events/%s", args[0]), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

// eventFlags holds the editable event fields as entered on the command line
type eventFlags struct {
	title       string
	sport       string
	description string
	location    string
	start       string
	end         string
	duration    time.Duration
	maxPlayers  int
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Event title")
	cmd.Flags().StringVar(&f.sport, "sport", "", "Sport")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.location, "location", "", "Location")
	cmd.Flags().StringVar(&f.start, "start", "", "Start time (RFC 3339)")
	cmd.Flags().StringVar(&f.end, "end", "", "End time (RFC 3339)")
	cmd.Flags().DurationVar(&f.duration, "duration", 0, "Length of the event, used instead of --end")
	cmd.Flags().IntVar(&f.maxPlayers, "max-players", 0, "Maximum number of players")
}

// body builds a request body from the flags the user actually set
func (f *eventFlags) body(cmd *cobra.Command) (map[string]any, error) {
	body := map[string]any{}
	changed := cmd.Flags().Changed

	if changed("title") {
		body["title"] = f.title
	}
	if changed("sport") {
		body["sport"] = f.sport
	}
	if changed("description") {
		body["description"] = f.description
	}
	if changed("location") {
		body["location"] = f.location
	}
	if changed("max-players") {
		body["max_players"] = f.maxPlayers
	}

	var start time.Time
	if changed("start") {
		t, err := time.Parse(time.RFC3339, f.start)
		if err != nil {
			return nil, fmt.Errorf("invalid --start: %w", err)
		}
		start = t
		body["start_time"] = t
	}

	switch {
	case changed("end"):
		t, err := time.Parse(time.RFC3339, f.end)
		if err != nil {
			return nil, fmt.Errorf("invalid --end: %w", err)
		}
		body["end_time"] = t
	case changed("duration"):
		if start.IsZero() {
			return nil, fmt.Errorf("--duration requires --start")
		}
		body["end_time"] = start.Add(f.duration)
	}

	return body, nil
}

func newEventCreateCmd() *cobra.Command {
	var flags eventFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event organized by the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := flags.body(cmd)
			if err != nil {
				return err
			}

			var result Event

			if err := client.Post(cmd.Context(), "/api/v1/events", body, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("max-players")
	cmd.MarkFlagsOneRequired("end", "duration")

	return cmd
}

func newEventUpdateCmd() *cobra.Command {
	var flags eventFlags

	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Change fields of an event you organize",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := flags.body(cmd)
			if err != nil {
				return err
			}

			var result Event

			if err := client.Patch(cmd.Context(), fmt.Sprintf("/api/v1/events/%s", args[0]), body, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newEventDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event you organize along with its join requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), fmt.Sprintf("/api/v1/events/%s", args[0])); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage("Event deleted")
			return nil
		},
	}
}

func newEventParticipantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participants <event-id>",
		Short: "List accepted players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Participants

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/events/%s/participants", args[0]), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newEventPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending <event-id>",
		Short: "List pending join requests, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PendingRequests

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/events/%s/requests", args[0]), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newEventEligibilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "can-join <event-id>",
		Short: "Check whether the signed-in user may request to join",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Eligibility

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/events/%s/eligibility", args[0]), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}
