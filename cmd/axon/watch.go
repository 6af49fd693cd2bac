package main

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"axon-assistant/internal/config"
	"axon-assistant/pkg/events"
	pktNats "axon-assistant/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var durable string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream assistant events (notes, todos, recordings) from NATS",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		err = sub.Subscribe(ctx, pktNats.SubjectPrefix+".>", durable, func(_ context.Context, e events.Event) error {
			fmt.Fprintln(out, formatEvent(e))
			return nil
		})
		if err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&durable, "durable", "", "durable consumer name; empty only shows new events")
}

var eventColors = map[string]*color.Color{
	events.TypeNoteSaved:      color.New(color.FgCyan),
	events.TypeTodoAdded:      color.New(color.FgGreen),
	events.TypeRecordingSaved: color.New(color.FgMagenta),
}

func formatEvent(e events.Event) string {
	c, ok := eventColors[e.EventType()]
	if !ok {
		c = color.New(color.FgWhite)
	}

	payload := e.Payload()
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
	}

	return fmt.Sprintf("%s %s %s",
		e.Timestamp().Format("15:04:05"),
		c.Sprintf("%-16s", e.EventType()),
		strings.Join(parts, " "))
}
