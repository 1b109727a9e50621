package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"labreserva-backend/config"
	"labreserva-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig, log *zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Info().Msg("running database migrations")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.EnableExclusionIndex {
		log.Info().Msg("applying interval exclusion constraint DDL")
		if err := applyExclusionDDL(db); err != nil {
			log.Warn().Err(err).Msg("failed to apply exclusion DDL, continuing without schema-level overlap guard")
		}
	}

	log.Info().Msg("database initialization complete")
	return db, nil
}

// Migrate runs the schema migrations for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Laboratory{},
		&model.Reservation{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// applyExclusionDDL installs a Postgres GiST exclusion constraint over
// (laboratorio_id, half-open interval) so that two overlapping reservations
// for the same laboratory cannot both commit, regardless of what the
// application-level conflict check saw. Timestamps are stored as fixed-layout
// strings, so the constraint goes through an IMMUTABLE parse function
// (to_timestamp with a format is only STABLE and cannot back an index).
func applyExclusionDDL(db *gorm.DB) error {
	ddls := []string{
		"CREATE EXTENSION IF NOT EXISTS btree_gist;",

		`CREATE OR REPLACE FUNCTION reserva_ts(texto text) RETURNS timestamp AS $$
			SELECT to_timestamp(texto, 'YYYY-MM-DD"T"HH24:MI') AT TIME ZONE 'UTC'
		$$ LANGUAGE SQL IMMUTABLE;`,

		`DO $$ BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap'
			) THEN
				ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap
					EXCLUDE USING GIST (
						laboratorio_id WITH =,
						tsrange(reserva_ts(data_inicio), reserva_ts(data_fim), '[)') WITH &&
					);
			END IF;
		END $$;`,
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
