package database

import (
	"fmt"
	"log"

	"teamspend/config"
	"teamspend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to MySQL, migrates the schema and seeds baseline data.
// The handle is returned to the caller; nothing here is a package global.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Category{},
		&models.Expense{},
	); err != nil {
		return nil, err
	}

	if err := seed(db, cfg); err != nil {
		return nil, err
	}

	log.Println("database ready")
	return db, nil
}

// seed inserts the category catalog into an empty table (the "default"
// category first, so it takes id 1) and ensures the bootstrap admin exists.
func seed(db *gorm.DB, cfg *config.Config) error {
	var catCount int64
	db.Model(&models.Category{}).Count(&catCount)
	if catCount == 0 {
		for _, name := range models.SeedCategories() {
			if err := db.Create(&models.Category{Name: name}).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
		}
	}

	if cfg.Admin.Email == "" {
		return nil
	}
	var existing models.User
	if err := db.Where("email = ?", cfg.Admin.Email).First(&existing).Error; err == nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Name:         cfg.Admin.Name,
		Surname:      cfg.Admin.Surname,
		Email:        cfg.Admin.Email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsApproved:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Printf("seeded bootstrap admin %s", cfg.Admin.Email)
	return nil
}
