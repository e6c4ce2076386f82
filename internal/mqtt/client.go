package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/PoolCheck-App/poolcheck_backend/internal/chemistry"
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
	"github.com/PoolCheck-App/poolcheck_backend/internal/services"
)

// Client wraps the MQTT client with pool test specific functionality
type Client struct {
	client        mqtt.Client
	parser        *services.TestParser
	dataHandler   func(*models.PoolTest)
	errorHandler  func(error)
	isConnected   bool
	defaultPoolID string
	topicTestData string
	topicAlerts   string
}

// Config holds MQTT connection configuration
type Config struct {
	BrokerURL     string
	ClientID      string
	Username      string
	Password      string
	KeepAlive     time.Duration
	PingTimeout   time.Duration
	ConnectRetry  bool
	TopicTestData string
	TopicAlerts   string
	DefaultPoolID string
}

// DefaultConfig returns default MQTT configuration
func DefaultConfig() *Config {
	return &Config{
		BrokerURL:     "tcp://localhost:1883",
		ClientID:      "poolcheck_backend",
		Username:      "",
		Password:      "",
		KeepAlive:     30 * time.Second,
		PingTimeout:   10 * time.Second,
		ConnectRetry:  true,
		TopicTestData: "poolcheck/tests/data",
		TopicAlerts:   "poolcheck/alerts",
		DefaultPoolID: "main",
	}
}

// NewClient creates a new MQTT client for pool probe controllers
func NewClient(config *Config) *Client {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.BrokerURL)
	opts.SetClientID(config.ClientID)
	opts.SetKeepAlive(config.KeepAlive)
	opts.SetPingTimeout(config.PingTimeout)
	opts.SetCleanSession(true)
	opts.SetConnectRetry(config.ConnectRetry)

	if config.Username != "" {
		opts.SetUsername(config.Username)
	}
	if config.Password != "" {
		opts.SetPassword(config.Password)
	}

	topicTestData := config.TopicTestData
	if topicTestData == "" {
		topicTestData = "poolcheck/tests/data"
	}
	topicAlerts := config.TopicAlerts
	if topicAlerts == "" {
		topicAlerts = "poolcheck/alerts"
	}

	client := &Client{
		parser:        services.NewTestParser(),
		isConnected:   false,
		defaultPoolID: config.DefaultPoolID,
		topicTestData: topicTestData,
		topicAlerts:   topicAlerts,
	}

	// Set connection handlers
	opts.SetDefaultPublishHandler(client.defaultMessageHandler)
	opts.SetOnConnectHandler(client.onConnect)
	opts.SetConnectionLostHandler(client.onConnectionLost)

	client.client = mqtt.NewClient(opts)

	return client
}

// Connect establishes connection to MQTT broker
func (c *Client) Connect() error {
	log.Println("Connecting to MQTT broker...")

	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Println("Successfully connected to MQTT broker")
	c.isConnected = true
	return nil
}

// Disconnect closes the MQTT connection
func (c *Client) Disconnect() {
	if c.isConnected {
		c.client.Disconnect(250)
		c.isConnected = false
		log.Println("Disconnected from MQTT broker")
	}
}

// IsConnected returns the connection status
func (c *Client) IsConnected() bool {
	return c.isConnected && c.client.IsConnected()
}

// SubscribeToTestData subscribes to pool test topics
func (c *Client) SubscribeToTestData() error {
	topics := map[string]byte{
		c.wildcardTestTopic(): 1, // + is wildcard for pool ID
		c.topicTestData:       1, // General test topic for the default pool
	}

	for topic, qos := range topics {
		if token := c.client.Subscribe(topic, qos, c.testDataHandler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("failed to subscribe to topic %s: %w", topic, token.Error())
		}
		log.Printf("Subscribed to topic: %s", topic)
	}

	return nil
}

// SetDataHandler sets the callback function for parsed pool tests
func (c *Client) SetDataHandler(handler func(*models.PoolTest)) {
	c.dataHandler = handler
}

// SetErrorHandler sets the callback function for errors
func (c *Client) SetErrorHandler(handler func(error)) {
	c.errorHandler = handler
}

// testDataHandler processes incoming pool test messages
func (c *Client) testDataHandler(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received test data on topic %s: %s", msg.Topic(), string(msg.Payload()))

	poolID := c.poolIDFromTopic(msg.Topic())

	// Try parsing as JSON first (preferred format)
	test, err := c.parser.ParseTestJSON(msg.Payload(), poolID)
	if err != nil {
		// Fallback to comma-separated format
		test, err = c.parser.ParseTestString(string(msg.Payload()), poolID)
		if err != nil {
			log.Printf("Failed to parse test data: %v", err)
			if c.errorHandler != nil {
				c.errorHandler(fmt.Errorf("test data parsing failed: %w", err))
			}
			return
		}
	}

	// Log the successful parsing
	log.Printf("Parsed pool test: %s", c.parser.FormatPoolTest(test))

	// Call the data handler if set
	if c.dataHandler != nil {
		c.dataHandler(test)
	}
}

// wildcardTestTopic derives the per-pool wildcard from the configured test
// topic by inserting "+" before the last segment, e.g. poolcheck/tests/data
// becomes poolcheck/tests/+/data
func (c *Client) wildcardTestTopic() string {
	idx := strings.LastIndex(c.topicTestData, "/")
	if idx < 0 {
		return c.topicTestData + "/+"
	}
	return c.topicTestData[:idx] + "/+" + c.topicTestData[idx:]
}

// poolIDFromTopic extracts the pool ID from a wildcard-matched topic; the
// general test topic maps to the default pool
func (c *Client) poolIDFromTopic(topic string) string {
	idx := strings.LastIndex(c.topicTestData, "/")
	if idx < 0 {
		return c.defaultPoolID
	}

	prefix := c.topicTestData[:idx+1] // "poolcheck/tests/"
	suffix := c.topicTestData[idx:]   // "/data"
	if len(topic) > len(prefix)+len(suffix) &&
		strings.HasPrefix(topic, prefix) && strings.HasSuffix(topic, suffix) {
		poolID := topic[len(prefix) : len(topic)-len(suffix)]
		if poolID != "" && !strings.Contains(poolID, "/") {
			return poolID
		}
	}
	return c.defaultPoolID
}

// defaultMessageHandler handles messages on unsubscribed topics
func (c *Client) defaultMessageHandler(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received message on unhandled topic %s: %s", msg.Topic(), string(msg.Payload()))
}

// onConnect callback when connection is established
func (c *Client) onConnect(client mqtt.Client) {
	log.Println("MQTT client connected")
	c.isConnected = true
}

// onConnectionLost callback when connection is lost
func (c *Client) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("MQTT connection lost: %v", err)
	c.isConnected = false

	if c.errorHandler != nil {
		c.errorHandler(fmt.Errorf("MQTT connection lost: %w", err))
	}
}

// closureAlert is the payload published when a pool must close
type closureAlert struct {
	PoolID    string    `json:"pool_id"`
	Alert     string    `json:"alert"`
	Reasons   []string  `json:"reasons"`
	Timestamp time.Time `json:"timestamp"`
}

// PublishClosureAlert publishes a closure alert for on-site signage and staff
func (c *Client) PublishClosureAlert(poolID string, decision *chemistry.ClosureDecision) error {
	alert := closureAlert{
		PoolID:    poolID,
		Alert:     "POOL_CLOSURE",
		Reasons:   decision.Reasons,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal closure alert: %w", err)
	}

	if token := c.client.Publish(c.topicAlerts, 1, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish closure alert: %w", token.Error())
	}

	log.Printf("Published closure alert to %s for pool %s", c.topicAlerts, poolID)
	return nil
}
