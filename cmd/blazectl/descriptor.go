package main

import (
	"strings"

	"blaze/internal/adapters/outbound/chain/hiro"
	"blaze/internal/application/dto"
	"blaze/internal/application/state"
	"blaze/internal/application/use_cases"
	"blaze/internal/domain/contractcall"
	"blaze/internal/domain/entities"

	"github.com/spf13/cobra"
)

func newDescriptorCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "descriptor OPERATION",
		Short:     "Build a contract-call descriptor (deposit, withdraw, transfer, stake, unstake, swap)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"deposit", "withdraw", "transfer", "stake", "unstake", "swap"},
		RunE: func(cmd *cobra.Command, args []string) error {
			network, err := a.network()
			if err != nil {
				return err
			}
			registry, err := a.registry()
			if err != nil {
				return err
			}

			baseURL := a.v.GetString("hiro-url")
			if baseURL == "" {
				baseURL = network.DefaultAPIBaseURL()
			}
			reader := hiro.NewGateway(hiro.Config{
				BaseURL: baseURL,
				APIKey:  a.v.GetString("hiro-api-key"),
				Timeout: a.v.GetDuration("hiro-timeout"),
			})

			routes := []entities.SwapRoute{}
			for _, definition := range entities.DefaultSwapRouteDefinitions() {
				route, appErr := entities.NewSwapRoute(definition)
				if appErr != nil {
					return appErr
				}
				routes = append(routes, route)
			}

			useCase := use_cases.NewBuildContractCallUseCase(
				contractcall.NewBuilder(network, a.v.GetBool("descriptor.allow-mode")),
				registry,
				routes,
				reader,
				state.NewStore(network),
			)
			output, appErr := useCase.Execute(cmd.Context(), dto.BuildContractCallCommand{
				Operation:         strings.ToLower(args[0]),
				Sender:            a.v.GetString("descriptor.sender"),
				Token:             a.v.GetString("descriptor.token"),
				TokenOut:          a.v.GetString("descriptor.token-out"),
				Recipient:         a.v.GetString("descriptor.recipient"),
				Amount:            a.v.GetString("descriptor.amount"),
				MinAmountOut:      a.v.GetString("descriptor.min-amount-out"),
				ExpectedAmountOut: a.v.GetString("descriptor.expected-amount-out"),
				PostConditionMode: a.v.GetString("descriptor.mode"),
				Truncate:          a.v.GetBool("descriptor.truncate"),
				Clamp:             a.v.GetBool("descriptor.clamp"),
			})
			if appErr != nil {
				return appErr
			}
			return a.writeJSON(output)
		},
	}

	flags := cmd.Flags()
	flags.String("sender", "", "sender principal")
	flags.String("token", "", "token symbol or contract")
	flags.String("token-out", "", "swap output token")
	flags.String("recipient", "", "transfer recipient principal")
	flags.String("amount", "", "human decimal amount")
	flags.String("min-amount-out", "", "swap minimum output in human units")
	flags.String("expected-amount-out", "", "swap quoted output; the minimum is derived from slippage")
	flags.String("mode", "", "post-condition mode (deny or allow)")
	flags.Bool("allow-mode", false, "permit allow mode when requested")
	flags.Bool("truncate", false, "truncate excess fractional digits")
	flags.Bool("clamp", false, "clamp the amount to the deposit cap")
	a.bindFlags(cmd, "descriptor")
	return cmd
}
