package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/pos-identity/internal/core/events"
	"github.com/frahmantamala/pos-identity/internal/core/events/mqtt"
	"github.com/frahmantamala/pos-identity/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect identity event types and publish test events`,
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List identity event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, eventType := range events.IdentityEventTypes() {
			fmt.Println(eventType)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus and, when enabled, the MQTT broker`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var eventData string

func publishTestEvent(eventType string) error {
	if !isIdentityEvent(eventType) {
		return fmt.Errorf("unknown event type %q, expected one of: %s", eventType, strings.Join(events.IdentityEventTypes(), ", "))
	}

	log := logger.LoggerWrapper()
	bus := events.NewEventBus(log)

	bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		log.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	cfg, err := loadConfig(".")
	if err == nil && cfg.Events.MQTT.Enabled {
		client, err := mqtt.Connect(cfg.Events.MQTT, log)
		if err != nil {
			return err
		}
		defer client.Close()
		mqtt.NewForwarder(client, cfg.Events.MQTT.TopicPrefix, byte(cfg.Events.MQTT.QoS), log).Attach(bus)
	}

	event := events.NewIdentityEvent(eventType, map[string]interface{}{
		"message": eventData,
		"source":  "cli-command",
	})

	log.Info("publishing test event", "event_type", eventType, "event_id", event.ID)

	if err := bus.PublishSync(context.Background(), event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Info("test event published successfully")
	return nil
}

func isIdentityEvent(eventType string) bool {
	for _, t := range events.IdentityEventTypes() {
		if t == eventType {
			return true
		}
	}
	return false
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(listEventsCmd)
	eventCmd.AddCommand(publishEventCmd)
}
