// Package main is the entry point for the valmetrics CLI tool, which aggregates
// Valorant match telemetry into per-match stat records and player profiles.
package main

import "github.com/pable/go-val-metrics/cmd"

func main() {
	cmd.Execute()
}
