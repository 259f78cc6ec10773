package models

import (
	"log"

	"github.com/mmdatafocus/rentals_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Property{}, &Unit{},
		&Tenant{}, &Payment{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
