package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

const (
	publishTimeout = 2 * time.Second
	queueSize      = 256
)

// publisher is the subset of mqtt.Client used here.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTObserver publishes checkpoints as JSON to an MQTT topic so other
// fleet services can follow document activity. Events are queued and
// published by a single worker; Observe never waits on the broker.
type MQTTObserver struct {
	client  publisher
	topic   string
	log     logrus.FieldLogger
	queue   chan []byte
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewMQTTObserver creates an observer publishing to topic and starts its
// worker. Call Close to flush queued events and stop the worker.
func NewMQTTObserver(client publisher, topic string, log logrus.FieldLogger) *MQTTObserver {
	o := &MQTTObserver{
		client:  client,
		topic:   topic,
		log:     log,
		queue:   make(chan []byte, queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go o.run()
	return o
}

// ConnectMQTT connects a paho client to broker.
func ConnectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return client, nil
}

type mqttMessage struct {
	Event
	Error string `json:"error,omitempty"`
}

// Observe queues the event for publishing. When the queue is full the
// event is dropped and logged.
func (o *MQTTObserver) Observe(_ context.Context, e Event) {
	msg := mqttMessage{Event: e}
	if e.Err != nil && e.FailureKind != FailureUnexpected {
		msg.Error = e.Err.Error()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		o.log.WithError(err).Warn("failed to encode mqtt event")
		return
	}
	select {
	case <-o.done:
		return
	default:
	}
	select {
	case o.queue <- payload:
	default:
		o.log.WithFields(logrus.Fields{
			"topic": o.topic,
			"event": string(e.Kind),
		}).Warn("mqtt queue full, event dropped")
	}
}

// Close publishes what is already queued and stops the worker.
func (o *MQTTObserver) Close() {
	o.once.Do(func() { close(o.done) })
	<-o.stopped
}

func (o *MQTTObserver) run() {
	defer close(o.stopped)
	for {
		select {
		case payload := <-o.queue:
			o.publish(payload)
		case <-o.done:
			for {
				select {
				case payload := <-o.queue:
					o.publish(payload)
				default:
					return
				}
			}
		}
	}
}

// publish sends one payload. Failures are logged and never reach the
// request that produced the event.
func (o *MQTTObserver) publish(payload []byte) {
	token := o.client.Publish(o.topic, 1, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		o.log.WithField("topic", o.topic).Warn("mqtt publish timed out")
		return
	}
	if err := token.Error(); err != nil {
		o.log.WithError(err).WithField("topic", o.topic).Warn("mqtt publish failed")
	}
}
