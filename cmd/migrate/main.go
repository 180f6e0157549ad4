package main

import (
	"log"

	"github.com/makerledger/inventory_backend/config"
	"github.com/makerledger/inventory_backend/models"
)

func main() {
	config.ConnectDatabaseWithRetry()
	models.MigrateTable()
	log.Println("migration complete")
}
