// Package mqtt broadcasts finished plans to downstream depot consumers such
// as display boards and the maintenance desk.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kochimetro/induction/core/events"
	"github.com/kochimetro/induction/core/induction"
	"github.com/kochimetro/induction/core/slotting"
	"github.com/kochimetro/induction/infra/logger"
	"github.com/kochimetro/induction/internal/eventbus"
)

// PlanPublisher broadcasts completed planning results.
type PlanPublisher interface {
	PublishPlan(runID string, result *induction.Result) error
	PublishSchedule(runID string, result *slotting.Result) error
	Close()
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoPublisher implements PlanPublisher using Eclipse Paho.
type PahoPublisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewPahoPublisher connects to the MQTT broker.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &PahoPublisher{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// PublishPlan broadcasts a completed induction plan.
func (p *PahoPublisher) PublishPlan(runID string, result *induction.Result) error {
	return p.publish(p.prefix+"/induction", runID, result)
}

// PublishSchedule broadcasts a completed departure schedule.
func (p *PahoPublisher) PublishSchedule(runID string, result *slotting.Result) error {
	return p.publish(p.prefix+"/schedule", runID, result)
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() {
	p.cli.Disconnect(250)
}

func (p *PahoPublisher) publish(topic, runID string, result any) error {
	if runID == "" {
		runID = uuid.NewString()
	}
	envelope := struct {
		RunID       string `json:"run_id"`
		PublishedAt int64  `json:"published_at"`
		Result      any    `json:"result"`
	}{
		RunID:       runID,
		PublishedAt: time.Now().UnixMilli(),
		Result:      result,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Infof("published run %s to %s", runID, topic)
			return nil
		}
		p.log.Warnf("publish to %s failed (attempt %d): %v", topic, attempt+1, publishErr)
		time.Sleep(p.backoff)
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	mu        sync.Mutex
	Plans     map[string]*induction.Result
	Schedules map[string]*slotting.Result
	FailAll   bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Plans:     make(map[string]*induction.Result),
		Schedules: make(map[string]*slotting.Result),
	}
}

// PublishPlan records the plan or returns an error if configured to fail.
func (m *MockPublisher) PublishPlan(runID string, result *induction.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return fmt.Errorf("publish failed")
	}
	m.Plans[runID] = result
	return nil
}

// PublishSchedule records the schedule or returns an error if configured to fail.
func (m *MockPublisher) PublishSchedule(runID string, result *slotting.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return fmt.Errorf("publish failed")
	}
	m.Schedules[runID] = result
	return nil
}

// Plan returns the recorded plan for a run, or nil.
func (m *MockPublisher) Plan(runID string) *induction.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Plans[runID]
}

// Schedule returns the recorded schedule for a run, or nil.
func (m *MockPublisher) Schedule(runID string) *slotting.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Schedules[runID]
}

// Close is a no-op for the mock.
func (m *MockPublisher) Close() {}

// StartEventPublisher forwards plan and schedule events from the bus to the
// publisher until the context is canceled.
func StartEventPublisher(ctx context.Context, bus eventbus.EventBus, pub PlanPublisher, log logger.Logger) {
	if bus == nil || pub == nil {
		return
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.PlanEvent:
					if err := pub.PublishPlan(e.RunID, e.Result); err != nil {
						log.Errorf("plan publish failed: %v", err)
					}
				case events.ScheduleEvent:
					if err := pub.PublishSchedule(e.RunID, e.Result); err != nil {
						log.Errorf("schedule publish failed: %v", err)
					}
				}
			}
		}
	}()
}
