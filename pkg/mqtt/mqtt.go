package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/benmeehan/activity-heatmap/pkg/file"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrNotConnected is returned when publishing before Initialize.
var ErrNotConnected = errors.New("mqtt client is not initialized")

// MQTTClient defines the interface for an MQTT client.
type MQTTClient interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MqttService provides methods for MQTT operations.
type MqttService struct {
	client     MQTTClient
	fileClient file.FileOperations
}

// NewMqttService creates a new MqttService instance.
func NewMqttService(fileClient file.FileOperations) *MqttService {
	return &MqttService{
		fileClient: fileClient,
	}
}

// NewMqttServiceWithClient wraps an already constructed client.
func NewMqttServiceWithClient(client MQTTClient, fileClient file.FileOperations) *MqttService {
	return &MqttService{
		client:     client,
		fileClient: fileClient,
	}
}

// Initialize sets up the MQTT client and starts the connection. TLS is enabled
// when caCertPath is set.
func (s *MqttService) Initialize(broker, clientID, caCertPath string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)

	if caCertPath != "" {
		caCert, err := s.fileClient.ReadFileRaw(caCertPath)
		if err != nil {
			return fmt.Errorf("failed to read CA certificate: %w", err)
		}

		// Create a CA certificate pool and append the CA certificate to it
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return fmt.Errorf("failed to append CA certificate")
		}
		opts.SetTLSConfig(&tls.Config{RootCAs: caCertPool})
	}

	s.client = mqtt.NewClient(opts)

	return s.Connect()
}

// Connect connects to the MQTT broker and waits for the result.
func (s *MqttService) Connect() error {
	if s.client == nil {
		return ErrNotConnected
	}
	token := s.client.Connect()
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Publish sends a message to the specified topic and waits up to timeout for
// the broker to acknowledge it.
func (s *MqttService) Publish(topic string, qos byte, retained bool, payload interface{}, timeout time.Duration) error {
	if s.client == nil {
		return ErrNotConnected
	}
	token := s.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	return token.Error()
}

// Disconnect gracefully disconnects the MQTT client.
func (s *MqttService) Disconnect(quiesce uint) {
	if s.client == nil {
		return
	}
	s.client.Disconnect(quiesce)
}
