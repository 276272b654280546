// Package ui provides styled text for rtop's output outside the dashboard:
// startup failures and flag errors printed to stderr.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text such as suggestions
//
// Lip Gloss drops the colors when stderr is not a terminal or NO_COLOR is
// set.
package ui
