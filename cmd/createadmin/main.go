// Command createadmin makes sure the bootstrap admin account exists. It
// creates the account when missing and promotes it when it lost the admin
// role. The database settings are read the same way the server reads them.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/salaries/internal/flagx"
	"github.com/dmitrijs2005/salaries/internal/prompt"
	"github.com/dmitrijs2005/salaries/internal/server/config"
	"github.com/dmitrijs2005/salaries/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/salaries/internal/server/services"
)

func main() {

	ctx := context.Background()

	// -p takes the next token verbatim, so passwords may start with "-".
	// It is cut out before the server flags are read.
	password, args, _ := flagx.Take(os.Args[1:], "-p")

	cfg, err := config.LoadConfigFrom(args)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if password == "" {
		password, err = prompt.NewPassword(os.Stdout)
		if err != nil {
			log.Fatalf("password: %v", err)
		}
	}

	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("%v", err)
	}

	res, err := services.NewUserService(db, rm, cfg).EnsureAdmin(ctx, services.DefaultAdmin(password))
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("admin account %s\n", res)
}
