package main

import (
	"context"
	"flag"
	"log"

	"github.com/makerledger/inventory_backend/config"
	"github.com/makerledger/inventory_backend/workflow"
)

func main() {
	orgId := flag.String("org", "", "organization id to reconcile")
	flag.Parse()
	if *orgId == "" {
		log.Fatal("usage: cost-reconcile -org <org-id>")
	}

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	logger := config.GetLogger()

	drifts, err := workflow.ReconcileProductCosts(context.Background(), db, logger, *orgId)
	if err != nil {
		log.Fatalf("reconcile failed: %v", err)
	}
	for _, d := range drifts {
		cached := "<nil>"
		if d.Cached != nil {
			cached = d.Cached.String()
		}
		log.Printf("repaired product=%d (%s): cached=%s recomputed=%s", d.ProductId, d.Name, cached, d.Recomputed)
	}
	log.Printf("reconcile complete: %d product(s) repaired", len(drifts))
}
