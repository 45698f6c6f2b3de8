package main

import (
	"fmt"

	valueobjects "blaze/internal/domain/value_objects"

	"github.com/spf13/cobra"
)

func newScaleCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scale AMOUNT",
		Short: "Convert a human decimal amount into integer base units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decimals, maxDeposit, err := a.resolveDecimals("scale")
			if err != nil {
				return err
			}

			options := valueobjects.ScaleOptions{
				Decimals:         decimals,
				Cap:              a.v.GetString("scale.cap"),
				TruncateFraction: a.v.GetBool("scale.truncate"),
				ClampToCap:       a.v.GetBool("scale.clamp"),
			}
			if options.Cap == "" && a.v.GetBool("scale.deposit-cap") {
				options.Cap = maxDeposit
			}

			amount, appErr := valueobjects.ScaleAmount(args[0], options)
			if appErr != nil {
				return appErr
			}
			_, err = fmt.Fprintln(a.out, amount.String())
			return err
		},
	}
	cmd.Flags().String("token", "", "token symbol or contract; supplies decimals and the deposit cap")
	cmd.Flags().Int("decimals", -1, "token decimals when --token is not given")
	cmd.Flags().String("cap", "", "human decimal ceiling")
	cmd.Flags().Bool("deposit-cap", false, "apply the token's maxDeposit as the ceiling")
	cmd.Flags().Bool("truncate", false, "drop fractional digits beyond the token decimals")
	cmd.Flags().Bool("clamp", false, "clamp amounts above the cap instead of rejecting them")
	a.bindFlags(cmd, "scale")
	return cmd
}

func newFormatCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format BASE_UNITS",
		Short: "Render integer base units as a human decimal amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decimals, _, err := a.resolveDecimals("format")
			if err != nil {
				return err
			}
			amount, appErr := valueobjects.ParseBaseUnits(args[0])
			if appErr != nil {
				return appErr
			}
			_, err = fmt.Fprintln(a.out, valueobjects.FormatBaseUnits(amount, decimals))
			return err
		},
	}
	cmd.Flags().String("token", "", "token symbol or contract")
	cmd.Flags().Int("decimals", -1, "token decimals when --token is not given")
	a.bindFlags(cmd, "format")
	return cmd
}

func (a *app) resolveDecimals(prefix string) (int, string, error) {
	if reference := a.v.GetString(prefix + ".token"); reference != "" {
		registry, err := a.registry()
		if err != nil {
			return 0, "", err
		}
		token, appErr := registry.Resolve(reference)
		if appErr != nil {
			return 0, "", appErr
		}
		return token.Definition.Decimals, token.Definition.MaxDeposit, nil
	}

	decimals := a.v.GetInt(prefix + ".decimals")
	if decimals < 0 {
		return 0, "", fmt.Errorf("either --token or --decimals is required")
	}
	return decimals, "", nil
}
