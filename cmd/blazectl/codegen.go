package main

import (
	"fmt"
	"os"
	"strings"

	"blaze/internal/codegen/dexterity"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCodegenCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codegen",
		Short: "Generate Clarity contract source",
	}
	cmd.AddCommand(newDexterityCommand(a))
	return cmd
}

func newDexterityCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dexterity",
		Short: "Render a Dexterity liquidity-pool contract",
		Long: "Render a Dexterity liquidity-pool contract. Parameters come from --params " +
			"(yaml or json) and are overridden by flags.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := a.dexterityParams(cmd)
			if err != nil {
				return err
			}

			source, appErr := dexterity.Generate(params)
			if appErr != nil {
				return appErr
			}

			output := a.v.GetString("dexterity.output")
			if output == "" {
				_, err := fmt.Fprint(a.out, source)
				return err
			}
			if err := os.WriteFile(output, []byte(source), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			name := dexterity.SanitizeContractName(params.LPTokenName)
			if deployer := a.v.GetString("dexterity.deployer"); deployer != "" {
				name = dexterity.FullContractName(name, deployer)
			}
			_, err = fmt.Fprintf(a.errOut, "wrote %s contract=%s\n", output, name)
			return err
		},
	}

	flags := cmd.Flags()
	flags.String("params", "", "parameter file")
	flags.String("output", "", "write the contract to this file instead of stdout")
	flags.String("deployer", "", "deployer address, used to report the full contract id")
	flags.String("token-uri", "", "LP token metadata uri")
	flags.String("token-a", "", "token A contract principal or .stx")
	flags.String("token-b", "", "token B contract principal or .stx")
	flags.String("lp-token-name", "", "LP token name")
	flags.String("lp-token-symbol", "", "LP token symbol")
	flags.String("lp-rebate-percent", "", "LP rebate percent, for example 5")
	flags.Uint64("initial-liquidity-a", 0, "initial token A liquidity in base units")
	flags.Uint64("initial-liquidity-b", 0, "initial token B liquidity in base units")
	a.bindFlags(cmd, "dexterity")
	return cmd
}

var dexterityParamKeys = []string{
	"token-uri",
	"token-a",
	"token-b",
	"lp-token-name",
	"lp-token-symbol",
	"lp-rebate-percent",
	"initial-liquidity-a",
	"initial-liquidity-b",
}

// dexterityParams layers explicitly set flags over the parameter file.
func (a *app) dexterityParams(cmd *cobra.Command) (dexterity.Params, error) {
	fileConfig := viper.New()
	if path := strings.TrimSpace(a.v.GetString("dexterity.params")); path != "" {
		fileConfig.SetConfigFile(path)
		if err := fileConfig.ReadInConfig(); err != nil {
			return dexterity.Params{}, fmt.Errorf("read params %s: %w", path, err)
		}
	}

	for _, key := range dexterityParamKeys {
		if cmd.Flags().Changed(key) {
			fileConfig.Set(key, a.v.Get("dexterity."+key))
		}
	}

	params := dexterity.Params{}
	if err := fileConfig.Unmarshal(&params); err != nil {
		return dexterity.Params{}, fmt.Errorf("decode params: %w", err)
	}
	if params.TokenURI == "" && params.LPTokenName != "" {
		if deployer := a.v.GetString("dexterity.deployer"); deployer != "" {
			contractID := dexterity.FullContractName(dexterity.SanitizeContractName(params.LPTokenName), deployer)
			params.TokenURI = dexterity.TokenURI(contractID)
		}
	}
	return params, nil
}
