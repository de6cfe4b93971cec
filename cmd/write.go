package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/hassctl/homeassistant"
)

var (
	attrPairs      []string
	dataFlag       string
	returnResponse bool
)

var setStateCmd = &cobra.Command{
	Use:   "set-state <entity_id> <state>",
	Short: "Create or update the state of an entity",
	Example: `  hassctl set-state sensor.outside_temp 21.5 --attr unit_of_measurement=°C --attr friendly_name="Outside"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := parseAttributes(attrPairs)
		if err != nil {
			return err
		}
		state, err := client.Request().State(cmd.Context(), credentials(), args[0], homeassistant.StateUpdateRequest{
			State:      args[1],
			Attributes: attrs,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), state)
	},
}

var fireCmd = &cobra.Command{
	Use:   "fire <event_type>",
	Short: "Fire an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseData(dataFlag)
		if err != nil {
			return err
		}
		msg, err := client.Request().Events(cmd.Context(), credentials(), args[0], data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), msg.Message)
		return err
	},
}

var callCmd = &cobra.Command{
	Use:     "call <domain> <service>",
	Short:   "Call a service",
	Example: `  hassctl call light turn_on --data '{"entity_id": "light.kitchen", "brightness": 128}'`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseData(dataFlag)
		if err != nil {
			return err
		}
		logger.Info().Str("domain", args[0]).Str("service", args[1]).Msg("Calling service")
		result, err := client.Request().Service(cmd.Context(), credentials(), args[0], args[1], data, returnResponse)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var templateCmd = &cobra.Command{
	Use:   "template <template>",
	Short: "Render a template",
	Long: `Render a template on the server. Use "-" to read the template from stdin.

HA reports template errors in the output text, not as a failure.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl := args[0]
		if tmpl == "-" {
			raw, err := readAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			tmpl = raw
		}
		text, err := client.Request().Template(cmd.Context(), credentials(), homeassistant.TemplateRequest{Template: tmpl})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	},
}

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate configuration.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client.Request().ConfigCheck(cmd.Context(), credentials())
		if err != nil {
			return err
		}
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if !result.Valid() {
			return fmt.Errorf("configuration is invalid: %s", result.Errors)
		}
		return nil
	},
}

var intentCmd = &cobra.Command{
	Use:     "intent",
	Short:   "Handle an intent",
	Example: `  hassctl intent --data '{"name": "SetTimer", "data": {"seconds": "30"}}'`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseData(dataFlag)
		if err != nil {
			return err
		}
		text, err := client.Request().Intent(cmd.Context(), credentials(), data)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	},
}

func init() {
	setStateCmd.Flags().StringArrayVarP(&attrPairs, "attr", "a", nil, "attribute as key=value (repeatable)")

	for _, c := range []*cobra.Command{fireCmd, callCmd, intentCmd} {
		c.Flags().StringVarP(&dataFlag, "data", "d", "", "JSON request body")
	}
	callCmd.Flags().BoolVar(&returnResponse, "return-response", false, "ask the service to return its response")

	rootCmd.AddCommand(setStateCmd, fireCmd, callCmd, templateCmd, checkConfigCmd, intentCmd)
}
