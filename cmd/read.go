package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/hassctl/filter"
	"github.com/s0up4200/hassctl/homeassistant"
)

var (
	// history flags
	minimalResponse        bool
	noAttributes           bool
	significantChangesOnly bool

	// states flags
	filterExpr string
	preset     string

	// services flags
	typedServices bool

	// camera flags
	cameraTime int64
	cameraOut  string
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to Home Assistant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		msg, err := client.Ping(ctx, credentials())
		if err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", msg.Message)

		haConfig, err := client.Config(ctx, credentials())
		if err != nil {
			return fmt.Errorf("failed to get config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "- Location: %s\n", haConfig.LocationName)
		fmt.Fprintf(cmd.OutOrStdout(), "- Version: %s\n", haConfig.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "- Components: %d\n", len(haConfig.Components))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the Home Assistant configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		haConfig, err := client.Config(cmd.Context(), credentials())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), haConfig)
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List event types and their listener counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := client.Events(cmd.Context(), credentials())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), events)
	},
}

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List service domains",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := client.Services(cmd.Context(), credentials())
		if err != nil {
			return err
		}
		if !typedServices {
			return printJSON(cmd.OutOrStdout(), services)
		}
		domains, err := homeassistant.DecodeServices(services)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), domains)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <entity_id>",
	Short: "Show state history of an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := client.History(cmd.Context(), credentials(), homeassistant.HistoryOptions{
			EntityID:               args[0],
			MinimalResponse:        minimalResponse,
			NoAttributes:           noAttributes,
			SignificantChangesOnly: significantChangesOnly,
		})
		if err != nil {
			return err
		}
		logger.Debug().Int("points", len(points)).Msg("Retrieved history")
		return printJSON(cmd.OutOrStdout(), points)
	},
}

var logbookCmd = &cobra.Command{
	Use:   "logbook [entity_id]",
	Short: "Show logbook entries",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var entityID string
		if len(args) == 1 {
			entityID = args[0]
		}
		entries, err := client.Logbook(cmd.Context(), credentials(), entityID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), entries)
	},
}

var statesCmd = &cobra.Command{
	Use:   "states [entity_id...]",
	Short: "Show entity states",
	Long: `Show the state of every entity, or of the given entities.

States can be narrowed with an expression, for example:
  hassctl states --filter 'domain == "light" && state == "on"'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		for _, id := range args {
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf("states: %w", homeassistant.ErrEmptyEntityID)
			}
		}

		var (
			states []homeassistant.State
			err    error
		)
		switch len(args) {
		case 0:
			states, err = client.States(ctx, credentials(), "")
		case 1:
			states, err = client.States(ctx, credentials(), args[0])
		default:
			states, err = client.StatesOf(ctx, credentials(), args...)
		}
		if err != nil {
			return err
		}

		expression, err := getFilterExpression()
		if err != nil {
			return err
		}
		if expression != "" {
			logger.Debug().Str("filter", expression).Msg("Filtering states")
			f, err := compiler.Compile(expression)
			if err != nil {
				return fmt.Errorf("invalid filter expression: %w", err)
			}
			states, err = filter.Apply(ctx, f, states)
			if err != nil {
				return err
			}
		}

		if states == nil {
			states = []homeassistant.State{}
		}
		return printJSON(cmd.OutOrStdout(), states)
	},
}

var errorLogCmd = &cobra.Command{
	Use:   "error-log",
	Short: "Print the error log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := client.ErrorLog(cmd.Context(), credentials())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	},
}

var cameraCmd = &cobra.Command{
	Use:   "camera <camera_entity_id>",
	Short: "Download a camera image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at := time.Now()
		if cameraTime > 0 {
			at = time.Unix(cameraTime, 0)
		}
		data, err := client.CameraProxy(cmd.Context(), credentials(), args[0], at)
		if err != nil {
			return err
		}
		if cameraOut == "" || cameraOut == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(cameraOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		logger.Info().Str("file", cameraOut).Int("bytes", len(data)).Msg("Saved camera image")
		return nil
	},
}

var calendarsCmd = &cobra.Command{
	Use:   "calendars",
	Short: "List calendars (not supported)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		calendars, err := client.Calendars(cmd.Context(), credentials())
		if errors.Is(err, homeassistant.ErrNotSupported) {
			return fmt.Errorf("calendars are not supported by this client")
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), calendars)
	},
}

func init() {
	historyCmd.Flags().BoolVar(&minimalResponse, "minimal", false, "only return state and last_changed after the first point")
	historyCmd.Flags().BoolVar(&noAttributes, "no-attributes", false, "omit attributes")
	historyCmd.Flags().BoolVar(&significantChangesOnly, "significant", false, "only return significant state changes")

	statesCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	statesCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")

	servicesCmd.Flags().BoolVar(&typedServices, "typed", false, "decode into domain records")

	cameraCmd.Flags().Int64Var(&cameraTime, "time", 0, "unix time in seconds (default now)")
	cameraCmd.Flags().StringVarP(&cameraOut, "output", "o", "", "write the image to a file instead of stdout")

	rootCmd.AddCommand(testCmd, configCmd, eventsCmd, servicesCmd, historyCmd, logbookCmd,
		statesCmd, errorLogCmd, cameraCmd, calendarsCmd)
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expression, ok := cfg.Filter.Presets[preset]; ok {
			return expression, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return "", nil
}
