package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, level, err := open(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.Room{},
		&model.Amenity{},
		&model.Attraction{},
		&model.Booking{},
		&model.Admin{},
		&model.Session{},
		&model.Notification{},
		&model.ContactMessage{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.EnableExclusionConstraint {
		if cfg.Driver != "postgres" {
			log.Printf("Warning: exclusion constraint requires postgres, driver is %q; skipping.", cfg.Driver)
		} else {
			log.Println("Applying booking exclusion constraint...")
			if err := applyPostgresDDL(db); err != nil {
				log.Printf("Warning: failed to apply booking exclusion constraint: %v. Continuing without it.", err)
			}
		}
	}

	if cfg.Seed {
		if err := Seed(db); err != nil {
			return nil, err
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

func open(cfg *config.DatabaseConfig) (gorm.Dialector, logger.LogLevel, error) {
	switch cfg.Driver {
	case "", "postgres":
		return postgres.Open(cfg.DSN), logger.Info, nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), logger.Warn, nil
	default:
		return nil, logger.Silent, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// applyPostgresDDL makes the database itself reject overlapping active
// bookings of a room, on top of the transactional check in the store.
func applyPostgresDDL(db *gorm.DB) error {
	ddls := []string{
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		"ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_check_range_valid;",
		"ALTER TABLE bookings " +
			"ADD CONSTRAINT bookings_check_range_valid CHECK (check_in < check_out);",

		// Half-open stay: checkout day is free for the next guest.
		"ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_no_overlap;",
		"ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap " +
			"EXCLUDE USING gist (room_id WITH =, tstzrange(check_in, check_out, '[)') WITH &&) " +
			"WHERE (status <> 'Cancelled');",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
