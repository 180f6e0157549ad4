package models

import (
	"log"

	"github.com/makerledger/inventory_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Organization{},
		&Part{}, &Product{}, &RecipeLine{},
		&PartTransaction{}, &ProductTransaction{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
