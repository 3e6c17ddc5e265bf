package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/xid"

	"github.com/sweeney/sleep-controller/internal/logger"
	"github.com/sweeney/sleep-controller/internal/power"
)

// bufferCapacity bounds the messages held while the broker is unreachable.
const bufferCapacity = 100

// RealPublisher publishes to an actual MQTT broker. Messages published
// while disconnected are buffered and replayed on reconnect.
type RealPublisher struct {
	client paho.Client
	log    *logger.Logger

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher for the given broker. The client
// keeps retrying in the background, so an unreachable broker at startup is
// not an error.
func NewRealPublisher(broker string, l *logger.Logger) *RealPublisher {
	p := &RealPublisher{
		log: l,
		buf: newRingBuffer(bufferCapacity),
	}

	will, _ := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("sleep-controller-" + xid.New().String()).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			l.Warnf("connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// onConnect replays buffered messages. Runs on a paho goroutine.
func (p *RealPublisher) onConnect(_ paho.Client) {
	p.mu.Lock()
	pending := p.buf.drainAll()
	p.mu.Unlock()

	p.log.Infof("connected, replaying %d buffered messages", len(pending))
	for _, m := range pending {
		if err := p.send(m); err != nil {
			p.log.Warnf("replay to %s: %v", m.topic, err)
		}
	}
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Publish sends a power event. QoS 0, not retained.
func (p *RealPublisher) Publish(event power.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.publish(bufferedMsg{topic: Topic, payload: payload})
}

// PublishSystem sends a lifecycle event. QoS 1 so shutdown is delivered.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.publish(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

// PublishLinkSync sends the retained link state. QoS 1.
func (p *RealPublisher) PublishLinkSync(sync LinkSync) error {
	payload, err := FormatLinkPayload(sync)
	if err != nil {
		return fmt.Errorf("format link payload: %w", err)
	}
	return p.publish(bufferedMsg{topic: TopicLink, payload: payload, qos: 1, retained: true})
}

func (p *RealPublisher) publish(m bufferedMsg) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		dropped := p.buf.push(m)
		p.mu.Unlock()
		if dropped {
			p.log.Warnf("buffer full (%d messages), dropping oldest", bufferCapacity)
		}
		return nil
	}
	return p.send(m)
}

func (p *RealPublisher) send(m bufferedMsg) error {
	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s: timeout", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", m.topic, err)
	}
	return nil
}

// Buffered returns the number of messages waiting for a connection.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.len()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
