// =============================================================================
// Order Billing Report - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   billing version
//
// OUTPUT:
//   Order Billing Report
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.11
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version and BuildDate are set at build time:
//   go build -ldflags "-X 'github.com/ginjaninja78/order-billing-report/cmd.Version=1.0.0'"
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Order Billing Report")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Build Date: %s\n", BuildDate)
		fmt.Printf("Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
