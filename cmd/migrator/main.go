package main

import (
	"contacts/internal/storage/migrations"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	var dsn, table string
	var down bool

	flag.StringVar(&dsn, "dsn", os.Getenv("DB_HOST"), "database connection string")
	// table for keeping info about migrations
	flag.StringVar(&table, "migrations-table", migrations.DefaultTable, "name of migrations table")
	flag.BoolVar(&down, "down", false, "roll back every migration instead of applying them")
	flag.Parse()

	if dsn == "" {
		panic("dsn is required")
	}

	if down {
		if err := migrations.Down(dsn, table); err != nil {
			panic(err)
		}
		fmt.Println("migrations rolled back")
		return
	}

	applied, err := migrations.Up(dsn, table)
	if err != nil {
		panic(err)
	}
	if !applied {
		fmt.Println("no migrations to apply")
		return
	}

	fmt.Println("migrations applied")
}
