package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/events"
	"github.com/Astemirdum/library-management/library/internal/model"
)

func testLoan() model.Loan {
	return model.Loan{
		ID:       7,
		Status:   model.LoanStatusActive,
		LoanDate: model.NewDate(2024, time.September, 10),
		User:     &model.User{ID: 1},
		Book:     &model.Book{ID: 2},
	}
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, time.September, 14, 10, 0, 0, 0, time.UTC)
	event := model.NewLoanEvent(model.LoanCreated, testLoan(), at)

	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "library.loans" {
			return errors.Errorf("unexpected topic %s", msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "7" {
			return errors.Errorf("unexpected key %s", key)
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got model.LoanEvent
		if err := jsoniter.Unmarshal(value, &got); err != nil {
			return err
		}
		if got.Type != model.LoanCreated || got.BookID != 2 || got.UserID != 1 || got.ID != event.ID {
			return errors.Errorf("unexpected event %+v", got)
		}
		return nil
	})

	p := events.NewPublisher(producer, "library.loans", zap.NewNop())
	require.NoError(t, p.Publish(context.Background(), event))
	require.NoError(t, p.Close())
}

func TestPublisher_Publish_error(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := events.NewPublisher(producer, "library.loans", zap.NewNop())
	err := p.Publish(context.Background(), model.NewLoanEvent(model.LoanFinished, testLoan(), time.Now()))
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	assert.Contains(t, err.Error(), "send LOAN_FINISHED")
	require.NoError(t, p.Close())
}

func TestNop(t *testing.T) {
	t.Parallel()
	var n events.Nop
	require.NoError(t, n.Publish(context.Background(), model.LoanEvent{}))
	require.NoError(t, n.Close())
}
