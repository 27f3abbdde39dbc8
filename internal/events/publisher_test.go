package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSaleRegistered_SendsJSONWithMetadata(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var evt SaleRegisteredEvent
		if err := json.Unmarshal(val, &evt); err != nil {
			return err
		}
		if evt.EventType != EventTypeSaleRegistered {
			return errors.New("unexpected event type " + evt.EventType)
		}
		if evt.EventID == "" || evt.Timestamp.IsZero() {
			return errors.New("event metadata not set")
		}
		if evt.SaleID != 3 || evt.ProductID != 9 || evt.TotalValue != 20 {
			return errors.New("payload mismatch")
		}
		return nil
	})

	p := NewKafkaPublisherWithProducer(producer)
	err := p.PublishSaleRegistered(context.Background(), SaleRegisteredEvent{
		SaleID:     3,
		ProductID:  9,
		Quantity:   2,
		TotalValue: 20,
		SoldAt:     time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublishStockChanged_PropagatesProducerFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(producer)
	err := p.PublishStockChanged(context.Background(), StockChangedEvent{ProductID: 1, Delta: -1, Reason: ReasonSale})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestNewPublisher_WithoutBrokersIsNoop(t *testing.T) {
	p, err := NewPublisher(nil)
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.PublishSaleRegistered(context.Background(), SaleRegisteredEvent{}))
	assert.NoError(t, p.Close())
}

func producerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	return config
}
