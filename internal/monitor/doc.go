// Package monitor contains the per-subsystem state machines. Each monitor
// owns an fsm.Machine, polls its collaborator once per tick and exposes a
// narrow typed API. Monitors hold no reference to whoever subscribes to them.
//
// Transitions are edge-triggered: a monitor moves its machine only when the
// observed condition changes, so listeners run once per edge rather than
// once per tick.
package monitor
