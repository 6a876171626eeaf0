package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotelops-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hotelops_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// Migrate applies the schema in parent->child order. Shared with tests,
// which run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Hotel{},
		&models.Staff{},
		&models.Guest{},
		&models.Room{},
		&models.Booking{},
		&models.Order{},
		&models.Promotion{},
		&models.PromotionItemDiscount{},
		&models.FolioAdjustment{},
	)
}

// SeedDatabase ensures a default hotel, staff login, and a handful of
// rooms exist so a fresh install is usable immediately.
func SeedDatabase() {
	var hotelCount int64
	DB.Model(&models.Hotel{}).Count(&hotelCount)
	if hotelCount == 0 {
		hotel := models.Hotel{
			Name:     envOrDefault("HOTEL_NAME", "HotelOps Demo Hotel"),
			Timezone: envOrDefault("HOTEL_TIMEZONE", "UTC"),
		}
		if err := DB.Create(&hotel).Error; err != nil {
			log.Printf("warning: failed to seed hotel: %v", err)
			return
		}
		log.Println("Default hotel seeded")

		rooms := []models.Room{
			{HotelID: hotel.ID, RoomNumber: "101", Floor: "1", Status: models.RoomStatusAvailable},
			{HotelID: hotel.ID, RoomNumber: "102", Floor: "1", Status: models.RoomStatusAvailable},
			{HotelID: hotel.ID, RoomNumber: "201", Floor: "2", Status: models.RoomStatusAvailable},
			{HotelID: hotel.ID, RoomNumber: "202", Floor: "2", Status: models.RoomStatusAvailable},
		}
		if err := DB.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Println("Rooms seeded")
		}
	}

	var staffCount int64
	DB.Model(&models.Staff{}).Count(&staffCount)
	if staffCount == 0 {
		hash, err := bcrypt.GenerateFromPassword(
			[]byte(envOrDefault("SEED_STAFF_PASSWORD", "frontdesk123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default staff password: %v", err)
			return
		}
		var hotel models.Hotel
		DB.First(&hotel)
		staff := models.Staff{
			HotelID:  hotel.ID,
			FullName: "Front Desk",
			Username: "frontdesk@hotelops.local",
			Password: string(hash),
			Role:     "receptionist",
		}
		if err := DB.Create(&staff).Error; err != nil {
			log.Printf("warning: failed to create default staff: %v", err)
		} else {
			log.Println("Default staff seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := Migrate(DB); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
