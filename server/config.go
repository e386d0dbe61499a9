package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dekarrin/tunacon/server/consvc"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/dao/inmem"
	"github.com/dekarrin/tunacon/server/dao/sqlite"
	"golang.org/x/crypto/bcrypt"
)

// DBType is the engine behind a Database.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// dbEngine describes how to open one DBType.
type dbEngine struct {
	// wantsDir is whether the engine keeps files in Database.DataDir.
	wantsDir bool
	open     func(dir string) (dao.Store, error)
}

var dbEngines = map[DBType]dbEngine{
	DatabaseInMemory: {
		open: func(string) (dao.Store, error) {
			return inmem.NewDatastore(), nil
		},
	},
	DatabaseSQLite: {
		wantsDir: true,
		open: func(dir string) (dao.Store, error) {
			if err := os.MkdirAll(dir, 0770); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			store, err := sqlite.NewDatastore(dir)
			if err != nil {
				return nil, fmt.Errorf("initialize sqlite: %w", err)
			}
			return store, nil
		},
	},
}

// ParseDBType parses the engine name at the start of a connection string.
// Case is ignored. "none" is not accepted.
func ParseDBType(s string) (DBType, error) {
	dbt := DBType(strings.ToLower(s))
	if _, ok := dbEngines[dbt]; !ok {
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
	return dbt, nil
}

// Database is where a server keeps its accounts and prompt history.
type Database struct {
	// Type is the engine of the database. It decides which other fields are
	// used.
	Type DBType

	// DataDir is the directory that SQLite keeps its data file in. Only used
	// when Type is DatabaseSQLite.
	DataDir string
}

// Connect opens the configured DB, creating the data directory and the tables
// it needs if they do not yet exist.
func (db Database) Connect() (dao.Store, error) {
	if err := db.Validate(); err != nil {
		return nil, err
	}
	return dbEngines[db.Type].open(db.DataDir)
}

// Validate returns an error if db is not a usable engine or is missing a field
// that its engine needs.
func (db Database) Validate() error {
	eng, ok := dbEngines[db.Type]
	if !ok {
		if db.Type == DatabaseNone {
			return fmt.Errorf("'none' DB is not valid")
		}
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
	if eng.wantsDir && db.DataDir == "" {
		return fmt.Errorf("%s DB needs a data directory", db.Type)
	}
	return nil
}

// ParseDBConnString parses a connection string of the form "engine:params", or
// just "engine" for engines that take no params. "sqlite:/data" keeps the
// SQLite data file in /data; "inmem" keeps everything in memory and loses it
// at shutdown.
func ParseDBConnString(s string) (Database, error) {
	engName, params, _ := strings.Cut(s, ":")
	params = strings.TrimSpace(params)

	if strings.EqualFold(strings.TrimSpace(engName), DatabaseNone.String()) {
		return Database{}, fmt.Errorf("cannot specify DB engine 'none' (perhaps you wanted 'inmem'?)")
	}
	dbt, err := ParseDBType(strings.TrimSpace(engName))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	db := Database{Type: dbt}
	if dbEngines[dbt].wantsDir {
		if params == "" {
			return Database{}, fmt.Errorf("%s DB engine requires path to data directory after ':'", dbt)
		}
		db.DataDir = params
	} else if params != "" {
		return Database{}, fmt.Errorf("unsupported param(s) for %s DB engine: %s", dbt, params)
	}

	return db, nil
}

// Config is the configuration of a Server.
type Config struct {
	// TokenSecret is the secret used for signing tokens. If not provided, a
	// default key is used.
	TokenSecret []byte

	// DB is where accounts and prompt history are kept. If not provided, an
	// in-memory DB is used.
	DB Database

	// DefsPath is the TCD file that the console's commands, variables, and
	// enumerations are loaded from at startup. If empty, the console starts
	// with only the built-in commands.
	DefsPath string

	// UnauthDelayMillis is the amount of additional time to wait
	// (in milliseconds) before sending a response that indicates either that
	// the client was unauthorized or the client was unauthenticated. This is
	// something of an "anti-flood" measure for naive clients attempting
	// non-parallel connections. If not set it will default to 1 second
	// (1000ms). Set this to any negative number to disable the delay.
	UnauthDelayMillis int

	// PasswordCost is the bcrypt cost of stored password hashes. If not set,
	// consvc.DefaultPasswordCost is used.
	PasswordCost int
}

// UnauthDelay returns UnauthDelayMillis as a time.Duration. Negative values
// give a zero Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a copy of cfg with unset values set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.TokenSecret == nil {
		newCFG.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if newCFG.DB.Type == "" || newCFG.DB.Type == DatabaseNone {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}
	if newCFG.PasswordCost == 0 {
		newCFG.PasswordCost = consvc.DefaultPasswordCost
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if cfg.PasswordCost < bcrypt.MinCost || cfg.PasswordCost > bcrypt.MaxCost {
		return fmt.Errorf("password cost: must be between %d and %d, but is %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.PasswordCost)
	}

	return nil
}
