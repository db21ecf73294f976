package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const defaultWait = 10 * time.Second

// Connect connects to the MQTT broker at the given URL, e.g.
// tcp://localhost:1883. Messages that have not been acknowledged are kept in
// storeDir so that they survive a restart.
func Connect(broker, clientID, storeDir string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetStore(mqtt.NewFileStore(storeDir)).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if ok := token.WaitTimeout(defaultWait); !ok {
		return nil, fmt.Errorf("sink: connect to %s timed out after %v", broker, defaultWait)
	} else if token.Error() != nil {
		return nil, fmt.Errorf("sink: failed to connect to %s: %w", broker, token.Error())
	}

	return client, nil
}

// MQTT is a Sink that publishes the JSON encoding of each Report to a topic.
type MQTT struct {
	Client mqtt.Client
	Topic  string
	QoS    byte
	// Wait bounds how long Publish waits for delivery. Zero means ten seconds.
	Wait time.Duration
}

func (m MQTT) Publish(ctx context.Context, r Report) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}

	waitDur := m.Wait
	if waitDur == 0 {
		waitDur = defaultWait
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < waitDur {
		waitDur = time.Until(deadline)
	}

	token := m.Client.Publish(m.Topic, m.QoS, false, b)
	if ok := token.WaitTimeout(waitDur); !ok {
		// Timed out.
		return fmt.Errorf("sink: publish timed out after %v", waitDur)
	} else if token.Error() != nil {
		// Finished before timeout but failed to publish.
		return fmt.Errorf("sink: failed to publish: %w", token.Error())
	}

	return nil
}
