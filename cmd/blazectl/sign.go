package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"blaze/internal/application/dto"
	"blaze/internal/domain/sip018"
	valueobjects "blaze/internal/domain/value_objects"
	"blaze/internal/shared_kernel/stackskeys"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newSignTransferCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-transfer",
		Short: "Sign an off-chain blaze transfer and print the relay payload",
		Long: "Sign an off-chain blaze transfer as a SIP-018 structured message. The private key " +
			"is read from BLAZE_SIGN_TRANSFER_PRIVATE_KEY or prompted for without echo.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			network, err := a.network()
			if err != nil {
				return err
			}
			registry, err := a.registry()
			if err != nil {
				return err
			}
			token, appErr := registry.Resolve(a.v.GetString("sign-transfer.token"))
			if appErr != nil {
				return appErr
			}
			to, appErr := valueobjects.ParsePrincipal(a.v.GetString("sign-transfer.to"))
			if appErr != nil {
				return appErr
			}

			amount, err := a.transferAmount(token.Definition.Decimals)
			if err != nil {
				return err
			}

			rawKey := a.v.GetString("sign-transfer.private-key")
			if rawKey == "" {
				rawKey, err = a.readSecret("private key (hex): ")
				if err != nil {
					return err
				}
			}
			key, keyErr := stackskeys.ParsePrivateKey(rawKey)
			if keyErr != nil {
				return keyErr
			}
			address, keyErr := stackskeys.AddressFromPrivateKey(key, network.SingleSigVersion())
			if keyErr != nil {
				return keyErr
			}

			nonce := a.v.GetUint64("sign-transfer.nonce")
			signature, appErr := sip018.SignTransfer(network, sip018.TransferMessage{
				Token:  token.Contract,
				To:     to,
				Amount: amount,
				Nonce:  nonce,
			}, key)
			if appErr != nil {
				return appErr
			}

			return a.writeJSON(dto.RelayTransferCommand{
				Signature: signature,
				From:      valueobjects.NewStandardPrincipal(address).String(),
				Token:     token.Definition.Symbol,
				To:        to.String(),
				Amount:    dto.AmountInput(amount.String()),
				Nonce:     nonce,
			})
		},
	}

	flags := cmd.Flags()
	flags.String("token", "", "token symbol or contract")
	flags.String("to", "", "recipient principal")
	flags.String("amount", "", "human decimal amount")
	flags.String("base-units", "", "amount in base units, instead of --amount")
	flags.Uint64("nonce", 0, "transfer nonce; must exceed the sender's last relayed nonce")
	flags.String("private-key", "", "hex private key (prefer the environment or the prompt)")
	a.bindFlags(cmd, "sign-transfer")
	return cmd
}

func (a *app) transferAmount(decimals int) (valueobjects.BaseUnits, error) {
	if raw := a.v.GetString("sign-transfer.base-units"); raw != "" {
		amount, appErr := valueobjects.ParseBaseUnits(raw)
		if appErr != nil {
			return valueobjects.BaseUnits{}, appErr
		}
		return amount, nil
	}
	amount, appErr := valueobjects.ScaleAmount(a.v.GetString("sign-transfer.amount"), valueobjects.ScaleOptions{
		Decimals: decimals,
	})
	if appErr != nil {
		return valueobjects.BaseUnits{}, appErr
	}
	return amount, nil
}

// promptSecret reads without echo from a terminal and falls back to a plain
// line read when stdin is piped.
func (a *app) promptSecret(prompt string) (string, error) {
	if file, ok := a.in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(a.errOut, prompt)
		secret, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(a.errOut)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(line), nil
}
