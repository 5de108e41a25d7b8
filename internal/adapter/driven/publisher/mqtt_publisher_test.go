package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
	"github.com/diillson/electricity-dashboard-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newFakeToken(err error, completed bool) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if completed {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type publishedMessage struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakePublisher struct {
	messages  []publishedMessage
	err       error
	completed bool
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.messages = append(f.messages, publishedMessage{topic, qos, retained, payload.([]byte)})
	return newFakeToken(f.err, f.completed)
}

func sampleCalculation() *entity.BillCalculation {
	return &entity.BillCalculation{
		Selection: entity.ApplianceSelection{Appliance: entity.Television, Hours: 4},
		Rate:      0.1,
		Records:   10,
		MeanHours: entity.UsageRecord{
			entity.Fan: 14, entity.Refrigerator: 22, entity.Television: 4,
			entity.AirConditioner: 2, entity.Monitor: 3,
		},
		BillByAppliance: map[entity.Appliance]entity.BillEstimate{
			entity.Fan: 1.4, entity.Refrigerator: 2.2, entity.Television: 0.4,
			entity.AirConditioner: 0.2, entity.Monitor: 0.3,
		},
		MeanEstimatedBill: 4.5,
	}
}

func TestPublishBillCalculation(t *testing.T) {
	fake := &fakePublisher{completed: true}
	p := newPublisher(nil, fake, "home/energy/")
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, p.PublishBillCalculation(context.Background(), sampleCalculation()))
	require.Len(t, fake.messages, len(entity.Appliances)+1)

	first := fake.messages[0]
	assert.Equal(t, "home/energy/bill/fan", first.topic)
	assert.Equal(t, byte(1), first.qos)
	assert.True(t, first.retained)

	var payload BillPayload
	require.NoError(t, json.Unmarshal(first.payload, &payload))
	assert.Equal(t, BillPayload{
		Appliance:         "Fan",
		Bill:              1.4,
		MeanHours:         14,
		Rate:              0.1,
		SelectedAppliance: "Television",
		SelectedHours:     4,
		Timestamp:         "2026-01-02T03:04:05Z",
	}, payload)

	last := fake.messages[len(fake.messages)-1]
	assert.Equal(t, "home/energy/bill/total", last.topic)
	require.NoError(t, json.Unmarshal(last.payload, &payload))
	assert.Equal(t, 4.5, payload.Bill)
	assert.Equal(t, "total", payload.Appliance)
}

func TestPublishDefaultsTopicPrefix(t *testing.T) {
	p := newPublisher(nil, &fakePublisher{completed: true}, "")
	assert.Equal(t, "electricity_dashboard/bill/airconditioner", p.topic("AirConditioner"))
}

func TestPublishBillCalculationErrors(t *testing.T) {
	fake := &fakePublisher{completed: true, err: errors.New("not authorized")}
	p := newPublisher(nil, fake, "home")
	err := p.PublishBillCalculation(context.Background(), sampleCalculation())
	assert.ErrorContains(t, err, "not authorized")
	assert.Len(t, fake.messages, 1)

	pending := &fakePublisher{completed: false}
	p = newPublisher(nil, pending, "home")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = p.PublishBillCalculation(ctx, sampleCalculation())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewMQTTPublisherRequiresBroker(t *testing.T) {
	_, err := NewMQTTPublisher(types.MQTTConfig{})
	assert.ErrorIs(t, err, types.ErrPublisherNotEnabled)
}
