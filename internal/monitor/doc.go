// Package monitor implements the interactive process dashboard.
//
// The dashboard shows every process on the local machine as a table, either
// flat or as a parent/child tree, with a summary header, an optional details
// panel for the selected process and a one-line key hint footer.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds UI state (input mode, panel visibility, window size) and a
//     procview.View that owns tree, selection, sort, filter and columns
//   - Update: Processes messages (keystrokes, snapshots, clock ticks)
//   - View: Renders the most recent procview.Frame to a string
//
// # Key Components
//
//	Model       - The Bubble Tea model containing all dashboard state
//	Collector   - Takes process snapshots on its own goroutine
//	History     - Ring buffer storage per process for the details sparklines
//
// # Message Flow
//
//  1. Collector.Run takes a snapshot immediately, then once per interval
//  2. Each result replaces any unconsumed one in a single-slot channel
//  3. waitForSnapshot turns the next result into a snapshotMsg
//  4. Update reconciles it into the view and rebuilds the frame
//  5. View draws the frame
//
// A failed snapshot leaves the previous frame on screen and shows a status
// message until the next good snapshot.
package monitor
