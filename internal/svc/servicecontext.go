package svc

import (
	"fmt"

	"github.com/convive/convive/internal/ai"
	"github.com/convive/convive/internal/calendar"
	"github.com/convive/convive/internal/config"
	"github.com/convive/convive/internal/convo"
	"github.com/convive/convive/internal/db"
	"github.com/convive/convive/internal/kv"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/sms"
)

// AgentID identifies the conversation agent; its own messages are never
// re-processed by the pipeline.
const AgentID = "convive-agent"

// ServiceContext holds the shared dependencies handlers need.
type ServiceContext struct {
	Config   config.Config
	DB       *db.Store
	KV       kv.Store
	SMS      sms.Sender
	Calendar *calendar.Google

	// Pipeline and Rooms are nil when no AI provider is configured; the chat
	// handlers answer 503 in that case.
	Pipeline *convo.Pipeline
	Rooms    *convo.StateProvider
}

// NewServiceContext wires up all services from config. An existing database
// can be passed in for tests; otherwise one is opened at the configured path.
func NewServiceContext(c config.Config, database ...*db.Store) (*ServiceContext, error) {
	svc := &ServiceContext{
		Config: c,
		KV:     kv.NewMemoryStore(),
	}

	if len(database) > 0 && database[0] != nil {
		svc.DB = database[0]
	} else {
		store, err := db.NewSQLite(c.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		svc.DB = store
		logging.Infof("SQLite database initialized at %s", c.Database.SQLitePath)
	}

	client := sms.NewClient(c)
	if c.IsSMSEnabled() && client.IsConfigured() {
		svc.SMS = client
		logging.Info("SMS delivery enabled")
	} else {
		svc.SMS = sms.LogSender{}
		logging.Info("SMS not configured - messages go to the log")
	}

	svc.Calendar = calendar.NewGoogle(c, svc.DB)
	if svc.Calendar.Enabled() {
		logging.Info("Google Calendar integration enabled")
	}

	provider, err := ai.NewFromConfig(c)
	if err != nil {
		logging.Warnf("AI provider not configured, chat pipeline disabled: %v", err)
	} else {
		store := convo.NewStateStore(svc.DB)
		baseURL := c.BackendBaseURL()
		svc.Pipeline = convo.NewPipeline(AgentID, convo.NewExtractor(provider), store, baseURL)
		svc.Rooms = convo.NewStateProvider(store, convo.NewStatusPoller(baseURL))
		logging.Infof("Chat pipeline initialized with provider %s", provider.ID())
	}

	return svc, nil
}

// Close releases held resources.
func (s *ServiceContext) Close() {
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			logging.Errorf("Failed to close database: %v", err)
		}
	}
}
