// Package sync reconciles the device-local store with the cloud store at
// sign-in time.
//
// Overview
//
// A user can accumulate tasks offline (local store) and on other devices
// (cloud store). When they sign in, exactly one of four data scenarios
// applies, and the orchestrator runs the matching one-time migration so a
// single authoritative copy survives:
//
//	Local      Cloud      Scenario        Action
//	empty      empty      none            nothing
//	has tasks  empty      upload          copy local → cloud, clear local
//	empty      has tasks  download        cache cloud → local
//	has tasks  has tasks  merge_needed    park, wait for the caller's decision
//
// Classification is by task presence only; groups do not count.
//
// Usage
//
//	orch := sync.New(local, cloud, nil, nil)
//
//	scenario, err := orch.OnSignIn(ctx, accountID)
//	if err != nil {
//	    return err
//	}
//
//	if scenario == sync.ScenarioMergeNeeded {
//	    // Prompt the user with orch.PendingTasks(), then either:
//	    err = orch.ConfirmMerge(ctx, selectedIDs) // empty = keep everything
//	    // or:
//	    err = orch.DiscardLocal(ctx)
//	}
//
// Ordering
//
// Detection reads both stores in parallel, but all cloud creates within an
// upload or merge run sequentially: a group must be created and its
// server-assigned id known before any task referencing it is uploaded.
// Group references are remapped through an in-memory id table; during a
// merge, groups are first deduplicated against the cloud by case-insensitive
// name so no duplicate group is created for a name that already exists.
//
// Error Handling
//
// No error is swallowed and no rollback is attempted:
//
//   - A read failure during detection aborts with nothing mutated.
//   - A create failure mid-upload leaves the already-written records in the
//     cloud and the local store untouched; the user can retry sign-in.
//   - The local store is cleared only after every create returned; a clear
//     failure is surfaced, leaving stale local data behind.
//
// Known Limitations
//
// Two behaviors are deliberate reproductions of the shipped mobile client,
// pending product confirmation of intended semantics:
//
//   - A device holding groups but zero tasks classifies as empty. Under a
//     download those local groups are replaced by the cloud cache without
//     being migrated.
//   - Retrying an upload after a mid-sequence failure re-creates the subset
//     that already made it to the cloud, duplicating those records. A
//     per-record idempotency key would close this once the server supports
//     conditional creates.
package sync
