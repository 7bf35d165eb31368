// =============================================================================
// Order Billing Report - Main Entry Point
// =============================================================================
//
// USAGE:
//   billing process    - Bill the orders of a fulfillment window
//   billing validate   - Check configuration and input without writing
//   billing version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, filtering, billing and report building
//   - pkg/           : Output file management
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/order-billing-report/cmd"
)

func main() {
	cmd.Execute()
}
