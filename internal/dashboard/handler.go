package dashboard

import (
	"encoding/json"
	"log"
	"time"

	"github.com/quadranthq/quadrant/internal/model"
	"github.com/quadranthq/quadrant/internal/sync"
)

// Handler bridges sync engine events to WebSocket broadcasts.
// It implements the sync.Events interface.
type Handler struct {
	server *Server
	logger *log.Logger
}

// NewHandler creates an event handler connected to a dashboard server.
func NewHandler(server *Server, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		server: server,
		logger: logger,
	}
}

var _ sync.Events = (*Handler)(nil)

// ScenarioDetected broadcasts the classified sign-in scenario.
func (h *Handler) ScenarioDetected(accountID string, scenario sync.Scenario) {
	h.send(MessageTypeScenario, ScenarioData{
		AccountID: accountID,
		Scenario:  scenario.String(),
	})
}

// MergeRequired broadcasts that a merge decision is pending.
func (h *Handler) MergeRequired(accountID string, pending []*model.Task) {
	titles := make([]string, 0, len(pending))
	for _, task := range pending {
		titles = append(titles, task.Title)
	}
	h.send(MessageTypeMergeRequired, MergeRequiredData{
		AccountID:    accountID,
		PendingCount: len(pending),
		Titles:       titles,
	})
}

// SyncCompleted broadcasts a finished migration.
func (h *Handler) SyncCompleted(accountID string, scenario sync.Scenario, migrated int) {
	h.send(MessageTypeSyncComplete, SyncCompleteData{
		AccountID: accountID,
		Scenario:  scenario.String(),
		Migrated:  migrated,
	})
}

func (h *Handler) send(typ MessageType, data any) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		h.logger.Printf("Failed to marshal %s data: %v", typ, err)
		return
	}
	h.server.Broadcast(Message{
		Type:      typ,
		Timestamp: time.Now(),
		Data:      dataJSON,
	})
}
