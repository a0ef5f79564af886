package storage

import (
	"log"

	"rentora-server/config"
	"rentora-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	dsn := config.Get().DatabaseURL

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connecting to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.PropertyImage{},
		&models.FavoriteProperty{},
		&models.Booking{},
		&models.Payment{},
		&models.Review{},
		&models.ServiceCategory{},
		&models.Service{},
		&models.ServiceProvider{},
		&models.ServiceBooking{},
		&models.MarketplaceCategory{},
		&models.MarketplaceItem{},
		&models.MarketplaceImage{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.Notification{},
		&models.ContactSubmission{},
		&models.Page{},
	)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
