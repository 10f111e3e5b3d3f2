package database

import (
	"github.com/crossfun/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func (d *Database) Connect(dsn string) error {
	// TranslateError maps unique violations to gorm.ErrDuplicatedKey so
	// handlers can answer 409 without parsing pg error codes.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Token{},
		&models.Transaction{},
		&models.LiquidityEvent{},
		&models.TokenHolder{},
		&models.ChatMessage{},
		&models.ChatReaction{},
	)
	if err != nil {
		return err
	}

	d.db = db

	return nil
}
