// Command rpportal-admin provisions an ADMIN account:
//
//	rpportal-admin -d <dsn> -email <email> [-handle <handle>]
package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/dmitrijs2005/rpportal/internal/admincli"
	"github.com/dmitrijs2005/rpportal/internal/server/config"
	"github.com/dmitrijs2005/rpportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rpportal/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	opts, err := admincli.ParseOptions(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations error: %v", err)
	}

	as := services.NewAccountService(db, rm, cfg)
	if err := admincli.Run(ctx, as, opts, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}
