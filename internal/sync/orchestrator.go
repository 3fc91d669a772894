package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/quadranthq/quadrant/internal/model"
)

// ErrNoPendingMerge is returned by ConfirmMerge and DiscardLocal when no
// merge decision is pending.
var ErrNoPendingMerge = errors.New("no merge decision pending")

// State identifies where the orchestrator is in a sync flow.
type State int

const (
	// StateIdle: no sync in progress.
	StateIdle State = iota

	// StateDetecting: reading both stores to classify the sign-in.
	StateDetecting

	// StateUploading: migrating local data to the cloud.
	StateUploading

	// StateDownloading: caching cloud data locally.
	StateDownloading

	// StateAwaitingMergeDecision: both stores hold data; blocked on the
	// caller's ConfirmMerge or DiscardLocal.
	StateAwaitingMergeDecision

	// StateMerging: uploading the selected local subset.
	StateMerging

	// StateDiscarding: clearing local data without cloud writes.
	StateDiscarding
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetecting:
		return "detecting"
	case StateUploading:
		return "uploading"
	case StateDownloading:
		return "downloading"
	case StateAwaitingMergeDecision:
		return "awaiting_merge_decision"
	case StateMerging:
		return "merging"
	case StateDiscarding:
		return "discarding"
	default:
		return "unknown"
	}
}

// Busy reports whether the state represents work in flight. Awaiting a merge
// decision is not busy: the flow is parked on the caller.
func (s State) Busy() bool {
	switch s {
	case StateDetecting, StateUploading, StateDownloading, StateMerging, StateDiscarding:
		return true
	default:
		return false
	}
}

// Orchestrator drives one reconciliation flow per sign-in.
//
// It holds no cross-session state: every OnSignIn starts fresh. Exactly one
// flow is expected per user session; the busy flag is advisory and the
// orchestrator does not lock against concurrent re-entry (caller
// responsibility, matching the single-session usage).
type Orchestrator struct {
	local  LocalStore
	cloud  CloudStore
	logger *log.Logger
	events Events

	state     State
	scenario  Scenario
	accountID string

	// Valid only in StateAwaitingMergeDecision.
	pendingTasks  []*model.Task
	pendingGroups []*model.TaskGroup
}

// New creates an Orchestrator over the two stores.
//
// If logger is nil, a default logger writing to stderr is used. Events may
// be nil for no notifications.
//
// Example:
//
//	orch := sync.New(local, cloud, nil, nil)
//	scenario, err := orch.OnSignIn(ctx, accountID)
func New(local LocalStore, cloud CloudStore, logger *log.Logger, events Events) *Orchestrator {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	if events == nil {
		events = NopEvents{}
	}
	return &Orchestrator{
		local:  local,
		cloud:  cloud,
		logger: logger,
		events: events,
		state:  StateIdle,
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return o.state
}

// Busy reports whether a sync operation is in flight.
func (o *Orchestrator) Busy() bool {
	return o.state.Busy()
}

// Scenario returns the last detected scenario, or ScenarioUnknown before the
// first successful detection.
func (o *Orchestrator) Scenario() Scenario {
	return o.scenario
}

// PendingTasks returns the local tasks awaiting a merge decision. Valid only
// in StateAwaitingMergeDecision; nil otherwise.
func (o *Orchestrator) PendingTasks() []*model.Task {
	if o.state != StateAwaitingMergeDecision {
		return nil
	}
	return o.pendingTasks
}

// OnSignIn runs the reconciliation flow for a fresh sign-in.
//
// It detects which scenario applies and, except for ScenarioMergeNeeded,
// completes the corresponding migration before returning. For
// ScenarioMergeNeeded the orchestrator parks in StateAwaitingMergeDecision
// and the caller must follow up with ConfirmMerge or DiscardLocal.
//
// Any prior pending merge state is dropped: the state machine re-enters
// fresh on every sign-in.
func (o *Orchestrator) OnSignIn(ctx context.Context, accountID string) (Scenario, error) {
	o.reset()
	o.accountID = accountID
	o.state = StateDetecting

	scenario, localSnap, cloudSnap, err := detect(ctx, o.local, o.cloud, accountID)
	if err != nil {
		o.state = StateIdle
		return ScenarioUnknown, err
	}

	o.scenario = scenario
	o.logger.Printf("Detected scenario %q for account %s (local=%d cloud=%d)",
		scenario, accountID, len(localSnap.tasks), len(cloudSnap.tasks))
	o.events.ScenarioDetected(accountID, scenario)

	switch scenario {
	case ScenarioNone:
		o.state = StateIdle
		o.events.SyncCompleted(accountID, scenario, 0)
		return scenario, nil

	case ScenarioUpload:
		o.state = StateUploading
		migrated, err := o.uploadAll(ctx, localSnap)
		o.state = StateIdle
		if err != nil {
			return scenario, err
		}
		o.logger.Printf("Uploaded %d records, local store cleared", migrated)
		o.events.SyncCompleted(accountID, scenario, migrated)
		return scenario, nil

	case ScenarioDownload:
		o.state = StateDownloading
		err := o.downloadAll(ctx, cloudSnap)
		o.state = StateIdle
		if err != nil {
			return scenario, err
		}
		o.logger.Printf("Cached %d cloud tasks locally", len(cloudSnap.tasks))
		o.events.SyncCompleted(accountID, scenario, 0)
		return scenario, nil

	case ScenarioMergeNeeded:
		o.pendingTasks = localSnap.tasks
		o.pendingGroups = localSnap.groups
		o.state = StateAwaitingMergeDecision
		o.logger.Printf("Merge decision needed: %d local tasks pending", len(o.pendingTasks))
		o.events.MergeRequired(accountID, o.pendingTasks)
		return scenario, nil

	default:
		o.state = StateIdle
		return ScenarioUnknown, fmt.Errorf("unexpected scenario %d", scenario)
	}
}

// ConfirmMerge merges the selected local tasks into the cloud store and
// clears the local store. An empty selection merges every pending task.
//
// Returns ErrNoPendingMerge unless a merge decision is pending.
func (o *Orchestrator) ConfirmMerge(ctx context.Context, selectedIDs []string) error {
	if o.state != StateAwaitingMergeDecision {
		return ErrNoPendingMerge
	}

	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	o.state = StateMerging
	migrated, err := o.merge(ctx, selected)
	o.state = StateIdle

	if err != nil {
		return err
	}

	o.pendingTasks = nil
	o.pendingGroups = nil
	o.logger.Printf("Merge complete: %d records uploaded, local store cleared", migrated)
	o.events.SyncCompleted(o.accountID, ScenarioMergeNeeded, migrated)
	return nil
}

// DiscardLocal abandons the pending local data without any cloud writes.
//
// Returns ErrNoPendingMerge unless a merge decision is pending.
func (o *Orchestrator) DiscardLocal(ctx context.Context) error {
	if o.state != StateAwaitingMergeDecision {
		return ErrNoPendingMerge
	}

	o.state = StateDiscarding
	err := o.discard(ctx)
	o.state = StateIdle

	if err != nil {
		return err
	}

	o.pendingTasks = nil
	o.pendingGroups = nil
	o.logger.Printf("Local data discarded")
	o.events.SyncCompleted(o.accountID, ScenarioMergeNeeded, 0)
	return nil
}

// reset drops any in-memory flow state.
func (o *Orchestrator) reset() {
	o.state = StateIdle
	o.scenario = ScenarioUnknown
	o.accountID = ""
	o.pendingTasks = nil
	o.pendingGroups = nil
}
