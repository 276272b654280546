// Package cli implements the rtop command-line interface.
//
// rtop is a single Cobra root command with no subcommands. Running it
// checks that stdout is a terminal, opens the log file, loads preferences,
// applies flag overrides and hands control to the monitor package until
// the user quits.
//
// # Startup
//
//  1. Refuse to start without a TTY (TERMINAL error, exit status 1)
//  2. Load the preferences file; a missing or malformed file falls back to
//     defaults with a warning in the log
//  3. Normalize the preferences and apply --interval, --flat and --sort
//  4. Start the collector goroutine and the Bubble Tea program
//  5. On a clean quit, save the final layout back to the preferences file
//
// # Flag Handling
//
// Flags override the preferences file for the current session only; they
// are written back only if the user saves or quits normally, in which case
// the saved values are whatever the dashboard shows at that moment.
package cli
