package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/panel-clock/internal/clock"
)

// bufferCapacity bounds how many messages queue while the broker is away.
// At the default tick rate (one event per wrap plus button presses) this
// covers hours of disconnection.
const bufferCapacity = 512

// RealPublisher publishes to an actual MQTT broker. Messages published
// while the broker is unreachable land in a ring buffer and are replayed
// in order on reconnect.
type RealPublisher struct {
	client   paho.Client
	commands chan<- Command

	mu       sync.Mutex
	buf      *ringBuffer
	dropping bool // a drop was already logged this disconnection episode
}

// NewRealPublisher creates a publisher for the given broker. commands may
// be nil to disable the command subscription. An unreachable broker is not
// an error: the paho client keeps retrying in the background and messages
// buffer until it appears.
func NewRealPublisher(broker string, commands chan<- Command) (*RealPublisher, error) {
	p := &RealPublisher{
		commands: commands,
		buf:      newRingBuffer(bufferCapacity),
	}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "OFFLINE",
		Reason:    "connection lost",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("panel-clock").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	// With connect retry enabled the token only completes with an error for
	// unrecoverable option problems; plain unreachability keeps retrying.
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		return nil, fmt.Errorf("connect to broker: %w", token.Error())
	}
	if !p.client.IsConnectionOpen() {
		log.Printf("mqtt: broker %s not reachable yet, buffering until connect", broker)
	}

	return p, nil
}

// onConnect runs on every successful (re)connect: it restores the command
// subscription, announces ONLINE over any retained OFFLINE will, and
// replays buffered messages.
func (p *RealPublisher) onConnect(client paho.Client) {
	if p.commands != nil {
		token := client.Subscribe(TopicCommand, 1, p.handleCommand)
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Printf("mqtt: subscribe %s: %v", TopicCommand, token.Error())
		}
	}

	online, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "ONLINE",
	})
	if err == nil {
		client.Publish(TopicSystem, 1, true, online)
	}

	p.drain(client)
}

// handleCommand parses an incoming command message and hands it to the
// main loop. The send never blocks: paho delivers messages on its own
// goroutine and must not stall behind a busy loop.
func (p *RealPublisher) handleCommand(_ paho.Client, msg paho.Message) {
	cmd, err := ParseCommand(msg.Payload())
	if err != nil {
		log.Printf("mqtt: ignoring command: %v", err)
		return
	}

	select {
	case p.commands <- cmd:
	default:
		log.Printf("mqtt: command channel full, dropping %q", cmd)
	}
}

// publish sends a message, or buffers it while the broker is away.
func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		dropped := p.buf.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		logDrop := dropped && !p.dropping
		if dropped {
			p.dropping = true
		}
		p.mu.Unlock()

		if logDrop {
			log.Printf("mqtt: buffer full (%d messages), dropping oldest", bufferCapacity)
		}
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// drain replays buffered messages after a reconnect, oldest first.
func (p *RealPublisher) drain(client paho.Client) {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.dropping = false
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}

	log.Printf("mqtt: replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		token := client.Publish(m.topic, m.qos, m.retained, m.payload)
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Printf("mqtt: replay %s: %v", m.topic, token.Error())
		}
	}
}

// Publish sends a clock event to the MQTT broker.
func (p *RealPublisher) Publish(event clock.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.publish(Topic, 0, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) so lifecycle messages survive a flaky link
	return p.publish(TopicSystem, 1, event.Retained, payload)
}

// IsConnected reports whether the broker connection is currently open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second to flush in-flight messages
	return nil
}
