package stubserver

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"linkr/internal/config"
)

// Connect opens the stub's database and migrates the schema. The driver is
// chosen by configuration: sqlite (in-memory) for tests and quick local
// runs, postgres for a persistent dev setup.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StubDBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBSSLMode,
		)
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		// A named in-memory database keeps connections of one process
		// on the same data while isolating parallel test databases.
		name := cfg.DBName
		if name == "" {
			name = "linkr-stub"
		}
		dialector = sqlite.Open("file:" + name + "?mode=memory&cache=shared")
	default:
		return nil, fmt.Errorf("unknown stub db driver %q", cfg.StubDBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&UserRow{},
		&PostRow{},
		&LikeRow{},
		&CommentRow{},
		&ShareRow{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
