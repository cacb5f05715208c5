// Package process runs the external ML framework command a stage delegates to.
package process
