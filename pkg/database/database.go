package database

import (
	"codedrill_backend/internal/config"
	"codedrill_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Problem{},
		&model.ProblemTest{},
		&model.ProblemProgress{},
		&model.Todo{},
		&model.LearningChapter{},
		&model.LearningSection{},
	); err != nil {
		return err
	}

	seedRoadmap(db)
	return nil
}

// seedRoadmap inserts a starter roadmap so a fresh install is not an empty
// page. Runs only when the chapter table is empty.
func seedRoadmap(db *gorm.DB) {
	var count int64
	db.Model(&model.LearningChapter{}).Count(&count)
	if count != 0 {
		return
	}

	sections := []model.LearningChapter{
		{Slug: "js-basics", Title: "Основы JavaScript", Badge: model.BadgeSection, OrderNum: 0},
		{Slug: "algorithms", Title: "Алгоритмы", Badge: model.BadgeSection, OrderNum: 1},
	}
	for i := range sections {
		db.Create(&sections[i])
	}

	chapters := []model.LearningChapter{
		{Slug: "variables", Title: "Переменные и типы", Badge: model.BadgeChapter, ParentSlug: "js-basics", OrderNum: 0},
		{Slug: "functions", Title: "Функции", Badge: model.BadgeChapter, ParentSlug: "js-basics", OrderNum: 1},
		{Slug: "big-o", Title: "Сложность алгоритмов", Badge: model.BadgeChapter, ParentSlug: "algorithms", OrderNum: 0},
	}
	for i := range chapters {
		db.Create(&chapters[i])
	}
}
