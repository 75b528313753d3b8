// Package state implements the live input-state tracker.
//
// A State owns two maps: input identifier → pressed boolean, and action
// name → bound identifier. Start subscribes listeners for the four input
// topics on the event bus; each down/up notification writes true/false under
// the event's tagged identifier. Consumers poll the query methods once per
// frame. Named actions alias exactly one identifier and always resolve
// through the pressed-state map; ActionPress/ActionRelease let tests and
// scripts drive an action without real input.
//
// Unresolved action names never produce an error: ActionPress, ActionRelease
// and IsActionPressed degrade to no-op/false, optionally reported through a
// debug log. Nothing on the query path can fail.
package state
