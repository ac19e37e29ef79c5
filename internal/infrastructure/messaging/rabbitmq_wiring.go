package messaging

import (
	"context"

	messaging "github.com/rodolfodevapp/eventshop-messaging-go/rabbitmq"
	"github.com/rs/zerolog/log"

	"github.com/RodolfoDevApp/eventshop-sku-go/internal/application"
)

const (
	EventsExchange   = "sku.events"
	CommandsExchange = "sku.commands"
)

// Producer for sku.events, fed by the outbox dispatcher.
func NewEventsProducer(rabbitUri string) *messaging.RabbitMqEventBus {
	opts := messaging.RabbitMqOptions{
		URI:          rabbitUri,
		ExchangeName: EventsExchange,
		QueuePrefix:  "sku.dispatcher.v1",
		Prefetch:     32,
		RetryDelayMs: 30000,
	}
	return messaging.NewRabbitMqEventBus(opts, nil, nil)
}

// Consumer for sku.commands.
func NewCommandsConsumer(
	rabbitUri string,
	queuePrefix string,
) *messaging.RabbitMqEventBus {
	opts := messaging.RabbitMqOptions{
		URI:          rabbitUri,
		ExchangeName: CommandsExchange,
		QueuePrefix:  queuePrefix,
		Prefetch:     8,
		RetryDelayMs: 30000,
	}
	return messaging.NewRabbitMqEventBus(opts, nil, nil)
}

func RegisterImportSubscriptions(
	ctx context.Context,
	bus *messaging.RabbitMqEventBus,
	importHandler application.EventHandler,
) error {
	bus.Subscribe(application.SkuImportRequestedType, importHandler)

	if err := bus.StartConsumers(ctx); err != nil {
		log.Error().Err(err).Msg("error starting sku.commands consumers")
		return err
	}
	return nil
}
