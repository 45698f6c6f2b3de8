package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	kafkamessaging "blaze/internal/adapters/outbound/messaging/kafka"
	"blaze/internal/application/dto"

	"github.com/spf13/cobra"
)

type eventSource interface {
	Next(ctx context.Context) (dto.BalanceEvent, error)
	Close() error
}

var newEventSource = func(cfg kafkamessaging.ReaderConfig) eventSource {
	return kafkamessaging.NewReader(cfg)
}

func newEventsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect published balance events",
	}

	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print balance events from Kafka as JSON lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			brokers := splitBrokers(a.v.GetString("events.brokers"))
			if len(brokers) == 0 {
				return fmt.Errorf("--brokers is required")
			}

			source := newEventSource(kafkamessaging.ReaderConfig{
				Brokers: brokers,
				Topic:   a.v.GetString("events.topic"),
				GroupID: a.v.GetString("events.group"),
			})
			defer source.Close()

			return a.tailEvents(cmd.Context(), source, eventFilter{
				address:  a.v.GetString("events.address"),
				contract: a.v.GetString("events.contract"),
				limit:    a.v.GetInt("events.limit"),
			})
		},
	}
	flags := tail.Flags()
	flags.String("brokers", "", "comma-separated Kafka brokers")
	flags.String("topic", kafkamessaging.DefaultBalanceTopic, "balance event topic")
	flags.String("group", "", "consumer group; empty reads without committing offsets")
	flags.String("address", "", "only events touching this principal")
	flags.String("contract", "", "only events for this blaze contract")
	flags.Int("limit", 0, "stop after this many events; 0 follows until interrupted")
	a.bindFlags(tail, "events")

	cmd.AddCommand(tail)
	return cmd
}

type eventFilter struct {
	address  string
	contract string
	limit    int
}

func (f eventFilter) matches(event dto.BalanceEvent) bool {
	if f.contract != "" && event.Contract != f.contract {
		return false
	}
	if f.address == "" {
		return true
	}
	return event.Address == f.address || event.From == f.address || event.To == f.address
}

func (a *app) tailEvents(ctx context.Context, source eventSource, filter eventFilter) error {
	encoder := json.NewEncoder(a.out)
	printed := 0
	for {
		event, err := source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if !filter.matches(event) {
			continue
		}
		if err := encoder.Encode(event); err != nil {
			return err
		}
		printed++
		if filter.limit > 0 && printed >= filter.limit {
			return nil
		}
	}
}

func splitBrokers(raw string) []string {
	out := []string{}
	for _, broker := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
