package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/rentals_backend/config"
	"github.com/mmdatafocus/rentals_backend/models"
	"github.com/mmdatafocus/rentals_backend/utils"
)

// Maintenance tool: runs a consistency scan for one landlord and prints the
// findings as JSON. Exit code 2 means findings were reported, so cron jobs
// can alert on the status alone.
func main() {
	landlordID := flag.String("landlord-id", "", "Required: landlord id (uuid)")
	failOnFindings := flag.Bool("fail-on-findings", false, "Exit with code 2 when findings are reported")
	flag.Parse()

	if strings.TrimSpace(*landlordID) == "" {
		fmt.Fprintln(os.Stderr, "--landlord-id is required")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	ctx := utils.SetLandlordIdInContext(context.Background(), strings.TrimSpace(*landlordID))
	findings, err := models.RunConsistencyScan(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}

	out, err := utils.MarshalToJSON(&findings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)

	if *failOnFindings && len(findings) > 0 {
		os.Exit(2)
	}
}
