// Command seed generates fake diary entries for an existing user, which is
// handy when filling a development database.
//
// Usage: seed <email>
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"

	"diarium/internal/config"
	"diarium/internal/db"
	"diarium/internal/logger"
	"diarium/internal/mail"
	"diarium/internal/model"
	"diarium/internal/repository"
	"diarium/internal/service"
)

const entriesPerUser = 20

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: seed <email>")
	}
	email := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Entry{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	entryRepo := repository.NewEntryRepository(gormDB)

	ctx := context.Background()
	user, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("no user with email %s", email)
		}
		log.Fatalf("find user: %v", err)
	}

	// Seeded entries stay unpublished, so no mail can ever go out; the log
	// mailer is plenty here.
	slogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	entryService := service.NewEntryService(entryRepo, mail.NewLogMailer(cfg.MailFrom, slogger), slogger)

	created := 0
	for i := 0; i < entriesPerUser; i++ {
		title := gofakeit.Sentence(6)
		body := gofakeit.Paragraph(3, 5, 12, " ")

		if _, err := entryService.Create(ctx, user.ID, title, body, ""); err != nil {
			log.Fatalf("create entry: %v", err)
		}
		created++
	}

	log.Printf("created %d entries for %s", created, email)
}
