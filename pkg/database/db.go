package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TransferRecord journals every transfer attempt and its outcome. The
// journal is append-only; the engine never replays it.
type TransferRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    string    `gorm:"index;not null" json:"session_id"`
	TaskID       string    `gorm:"not null" json:"task_id"`
	MonitorID    *int64    `json:"monitor_id"`
	Scope        string    `gorm:"not null" json:"scope"`
	StartDate    string    `gorm:"not null" json:"start_date"`
	EndDate      string    `gorm:"not null" json:"end_date"`
	CourseID     int64     `json:"course_id"`
	BookingID    int64     `json:"booking_id"`
	SubgroupID   int64     `json:"subgroup_id"`
	BookingUsers int       `json:"booking_users"`
	Status       string    `gorm:"not null" json:"status"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"created_at"`
}

// DailyUsage counts board and transfer activity per calendar day.
type DailyUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Date          string `gorm:"uniqueIndex;not null" json:"date"`
	BoardRequests int    `gorm:"default:0" json:"board_requests"`
	TransferCount int    `gorm:"default:0" json:"transfer_count"`
	TaskCount     int    `gorm:"default:0" json:"task_count"`
}

// InitDB initializes the database connection and migrates the schema.
// A postgres DSN in DATABASE_URL wins; otherwise a local sqlite file.
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "planner.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	db.AutoMigrate(&TransferRecord{}, &DailyUsage{})

	return db
}
