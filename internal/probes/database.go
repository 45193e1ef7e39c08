package probes

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/argus-dev/argus/internal/models"

	// Database drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// checkDatabase opens a connection to the job's database target and pings it.
func (c *Checker) checkDatabase(ctx context.Context, job models.Job) Result {
	cfg := job.Database

	if cfg == nil {
		return Result{}
	}

	var dsn string

	switch cfg.Driver {
	case "postgres":
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, sslMode)
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
	default:
		return Result{}
	}

	db, err := sql.Open(cfg.Driver, dsn)

	if err != nil {
		return Result{}
	}

	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return Result{}
	}

	return Result{Reachable: true}
}
