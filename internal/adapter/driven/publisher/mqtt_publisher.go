package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/diillson/electricity-dashboard-go/internal/domain/entity"
	"github.com/diillson/electricity-dashboard-go/internal/domain/repository"
	"github.com/diillson/electricity-dashboard-go/internal/shared/types"
)

const (
	defaultTopicPrefix = "electricity_dashboard"
	defaultClientID    = "electricity-dashboard"
)

// messagePublisher é o subconjunto do cliente MQTT usado para publicar.
type messagePublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher publica estimativas de conta em um broker MQTT (ex.: Home Assistant).
type MQTTPublisher struct {
	client      mqtt.Client
	pub         messagePublisher
	topicPrefix string
	now         func() time.Time
}

// BillPayload is the JSON body published for each appliance and for the total.
type BillPayload struct {
	Appliance         string  `json:"appliance"`
	Bill              float64 `json:"bill"`
	MeanHours         float64 `json:"mean_hours,omitempty"`
	Rate              float64 `json:"rate"`
	SelectedAppliance string  `json:"selected_appliance"`
	SelectedHours     float64 `json:"selected_hours"`
	Timestamp         string  `json:"timestamp"`
}

// NewMQTTPublisher conecta ao broker configurado.
func NewMQTTPublisher(cfg types.MQTTConfig) (repository.EstimatePublisher, error) {
	if cfg.Broker == "" {
		return nil, types.ErrPublisherNotEnabled
	}

	broker := cfg.Broker
	if !strings.Contains(broker, "://") {
		broker = fmt.Sprintf("tcp://%s", broker)
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return newPublisher(client, client, cfg.TopicPrefix), nil
}

func newPublisher(client mqtt.Client, pub messagePublisher, topicPrefix string) *MQTTPublisher {
	topicPrefix = strings.TrimSuffix(topicPrefix, "/")
	if topicPrefix == "" {
		topicPrefix = defaultTopicPrefix
	}
	return &MQTTPublisher{
		client:      client,
		pub:         pub,
		topicPrefix: topicPrefix,
		now:         time.Now,
	}
}

// PublishBillCalculation publica a conta de cada aparelho e o total em tópicos retidos.
func (p *MQTTPublisher) PublishBillCalculation(ctx context.Context, calc *entity.BillCalculation) error {
	timestamp := p.now().UTC().Format(time.RFC3339)
	base := BillPayload{
		Rate:              float64(calc.Rate),
		SelectedAppliance: string(calc.Selection.Appliance),
		SelectedHours:     calc.Selection.Hours,
		Timestamp:         timestamp,
	}

	for _, a := range entity.Appliances {
		payload := base
		payload.Appliance = string(a)
		payload.Bill = float64(calc.BillByAppliance[a])
		payload.MeanHours = calc.MeanHours[a]
		if err := p.publish(ctx, p.topic(string(a)), payload); err != nil {
			return err
		}
	}

	total := base
	total.Appliance = "total"
	total.Bill = float64(calc.MeanEstimatedBill)
	return p.publish(ctx, p.topic("total"), total)
}

func (p *MQTTPublisher) topic(name string) string {
	return fmt.Sprintf("%s/bill/%s", p.topicPrefix, strings.ToLower(name))
}

func (p *MQTTPublisher) publish(ctx context.Context, topic string, payload BillPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.pub.Publish(topic, 1, true, body)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publishing to %s: %w", topic, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// Close desconecta do broker MQTT.
func (p *MQTTPublisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
