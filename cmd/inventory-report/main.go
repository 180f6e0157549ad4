package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/makerledger/inventory_backend/config"
	"github.com/makerledger/inventory_backend/workflow"
)

func main() {
	orgId := flag.String("org", "", "organization id")
	out := flag.String("out", "valuation.xlsx", "output file path")
	flag.Parse()
	if *orgId == "" {
		log.Fatal("usage: inventory-report -org <org-id> [-out valuation.xlsx]")
	}

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()

	db := config.GetDB()
	if err := workflow.ExportValuationReport(context.Background(), db, *orgId, f); err != nil {
		log.Fatalf("export failed: %v", err)
	}
	log.Printf("wrote %s", *out)
}
