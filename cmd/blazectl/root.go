package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "BLAZE"

type app struct {
	v          *viper.Viper
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	readSecret func(prompt string) (string, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	a := &app{v: v, in: in, out: out, errOut: errOut}
	a.readSecret = a.promptSecret
	return a
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "blazectl",
		Short:         "Operator tooling for the blaze subnet service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if path := a.v.GetString("config"); path != "" {
				a.v.SetConfigFile(path)
				if err := a.v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config %s: %w", path, err)
				}
			}
			return nil
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "optional config file (yaml, json or toml)")
	flags.String("network", string(valueobjects.NetworkMainnet), "stacks network: mainnet or testnet")
	flags.String("hiro-url", "", "Stacks API base url (defaults to the network's Hiro endpoint)")
	flags.String("hiro-api-key", "", "Hiro API key")
	flags.Duration("hiro-timeout", 5*time.Second, "read-only call timeout")
	flags.String("token-registry", "", "path to a JSON token registry (defaults to the built-in registry)")
	for _, name := range []string{"config", "network", "hiro-url", "hiro-api-key", "hiro-timeout", "token-registry"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		newScaleCommand(a),
		newFormatCommand(a),
		newDescriptorCommand(a),
		newCodegenCommand(a),
		newSignTransferCommand(a),
		newEventsCommand(a),
	)
	return root
}

func (a *app) network() (valueobjects.Network, error) {
	network, appErr := valueobjects.ParseNetwork(a.v.GetString("network"))
	if appErr != nil {
		return "", appErr
	}
	return network, nil
}

func (a *app) registry() (*entities.TokenRegistry, error) {
	definitions := entities.DefaultTokenDefinitions()
	if path := strings.TrimSpace(a.v.GetString("token-registry")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read token registry: %w", err)
		}
		definitions = []entities.TokenDefinition{}
		if err := json.Unmarshal(raw, &definitions); err != nil {
			return nil, fmt.Errorf("decode token registry: %w", err)
		}
	}

	registry, appErr := entities.NewTokenRegistry(definitions)
	if appErr != nil {
		return nil, appErr
	}
	return registry, nil
}

func (a *app) writeJSON(value any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// bindFlags binds every local flag of cmd to viper under prefix.name.
func (a *app) bindFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		_ = a.v.BindPFlag(prefix+"."+flag.Name, flag)
	})
}
