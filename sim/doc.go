// Package sim provides the discrete-event kernel for the airtime simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - task.go: Task lifecycle (generated → uploading → processing → downloading → completed)
//   - event.go: Event types that drive the simulation (arrival, upload/processing/download completion)
//   - simulator.go: The event loop and the per-task state transitions
//
// # Architecture
//
// The sim package defines interfaces and bridge types; implementations live in
// sub-packages:
//   - sim/network/: per-access-point airtime timelines, the slot-search scheduler,
//     and the NetworkModel implementations (airtime contention, physical distance)
//   - sim/mobility/: access-point assignment over time (static, nomadic)
//   - sim/workload/: stream load generation from application profiles
//   - sim/trace/: per-transfer decision trace recording
//   - sim/observability/: Prometheus collectors for transfer outcomes
//
// Sub-packages register their implementations via init() functions that set
// package-level factory variables (NewNetworkModelFunc, NewMobilityModelFunc).
//
// # Key Interfaces
//
//   - NetworkModel: upload/download delay for a task, plus transfer lifecycle hooks
//   - MobilityModel: device location and serving access point at a simulated time
//   - Clock: current simulated time
//   - TransferObserver: receives every transfer decision (metrics sinks)
//
// All times are simulated seconds. A delay of 0 returned by a NetworkModel means
// the transfer could not be scheduled; configuration problems are reported as
// *ConfigError.
package sim
