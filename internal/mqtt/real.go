package mqtt

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/pitboss/internal/sensor"
)

// RealAnnouncer publishes to an actual MQTT broker. Connection and publish
// completion happen on paho's goroutines so no call blocks the tick loop,
// except Stop which waits briefly for the OFFLINE message to flush.
type RealAnnouncer struct {
	broker string
	device string

	// newClient builds the paho client. Replaced in tests.
	newClient func(*paho.ClientOptions) paho.Client

	mu      sync.Mutex
	client  paho.Client
	pending *ringBuffer

	closing sync.WaitGroup
}

// NewRealAnnouncer creates an announcer for device on broker. Nothing is
// dialled until Start.
func NewRealAnnouncer(broker, device string) *RealAnnouncer {
	return &RealAnnouncer{
		broker:    broker,
		device:    device,
		newClient: paho.NewClient,
		pending:   newRingBuffer(DefaultBufferSize),
	}
}

// Start connects in the background. Presence is announced, and queued
// readings replayed, each time the link comes up.
func (a *RealAnnouncer) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return errors.New("mqtt: already started")
	}

	opts := paho.NewClientOptions().
		AddBroker(a.broker).
		SetClientID(a.device).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(StatusTopic(a.device), Offline, 1, true).
		SetOnConnectHandler(a.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	a.client = a.newClient(opts)
	a.client.Connect()
	log.Printf("mqtt: announcing %s via %s", a.device, a.broker)
	return nil
}

func (a *RealAnnouncer) onConnect(c paho.Client) {
	a.mu.Lock()
	if a.client != c {
		// Stopped, or restarted with a new client: leave the queue for it.
		a.mu.Unlock()
		return
	}
	msgs := a.pending.drainAll()
	a.mu.Unlock()

	log.Printf("mqtt: connected, replaying %d buffered messages", len(msgs))
	a.await(c.Publish(StatusTopic(a.device), 1, true, Online), "presence")
	for _, m := range msgs {
		a.await(c.Publish(m.topic, m.qos, m.retained, m.payload), m.topic)
	}
}

// await logs the outcome of a publish without blocking the caller.
func (a *RealAnnouncer) await(t paho.Token, what string) {
	go func() {
		<-t.Done()
		if err := t.Error(); err != nil {
			log.Printf("mqtt: publish %s: %v", what, err)
		}
	}()
}

// PublishReading sends the reading, or queues it while the link is down.
func (a *RealAnnouncer) PublishReading(r sensor.Reading, at time.Time) error {
	payload, err := FormatReading(r, at)
	if err != nil {
		return fmt.Errorf("format reading: %w", err)
	}
	msg := bufferedMsg{topic: TemperatureTopic(a.device), payload: payload}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		return errors.New("mqtt: not started")
	}
	if !a.client.IsConnectionOpen() {
		a.pending.push(msg)
		return nil
	}
	a.await(a.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload), msg.topic)
	return nil
}

// IsConnected reports whether the broker link is up.
func (a *RealAnnouncer) IsConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.client != nil && a.client.IsConnectionOpen()
}

// Stop detaches the client and returns at once; OFFLINE is published, if
// the link is up, and the client disconnected in the background. Readings
// still queued are kept for the next Start.
func (a *RealAnnouncer) Stop() error {
	a.mu.Lock()
	c := a.client
	a.client = nil
	a.mu.Unlock()
	if c == nil {
		return nil
	}

	a.closing.Add(1)
	go func() {
		defer a.closing.Done()
		if c.IsConnectionOpen() {
			t := c.Publish(StatusTopic(a.device), 1, true, Offline)
			if !t.WaitTimeout(time.Second) {
				log.Printf("mqtt: publish offline: timeout")
			} else if err := t.Error(); err != nil {
				log.Printf("mqtt: publish offline: %v", err)
			}
		}
		c.Disconnect(250)
	}()
	return nil
}

// Wait blocks until every stopped client has disconnected.
func (a *RealAnnouncer) Wait() {
	a.closing.Wait()
}

// Buffered returns the number of readings waiting for the broker.
func (a *RealAnnouncer) Buffered() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending.len()
}
