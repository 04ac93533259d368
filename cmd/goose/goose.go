// This is a custom goose binary to run the migration files in ./db against
// the configured database.

package main

import (
	"flag"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose"
	"github.com/spf13/viper"
)

var (
	flags      = flag.NewFlagSet("goose", flag.ExitOnError)
	dir        = flags.String("dir", "db", "directory with migration files")
	configPath = flags.String("config", "config", "Path to YAML file containing config")
)

func main() {
	flags.Parse(os.Args[1:])
	args := flags.Args()

	if len(args) < 1 {
		flags.Usage()
		return
	}

	viper.AutomaticEnv()
	viper.SetDefault("db.driverName", "postgres")
	viper.SetConfigName("config")
	viper.AddConfigPath(*configPath)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Fatal error config file: %s", err)
	}

	db := sqlx.MustConnect(viper.GetString("db.driverName"), viper.GetString("DB_DATASOURCE"))

	command := args[0]

	arguments := []string{}
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}

	if err := goose.Run(command, db.DB, *dir, arguments...); err != nil {
		log.Fatalf("Failed to run database migrations: %v %v", command, err)
	}
}
