package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/lightningnetwork/lnd/kvdb"
)

const (
	defaultDBName            = "pumpd.db"
	defaultDBTimeout         = 60 * time.Second
	defaultAutoCompactMinAge = 168 * time.Hour
)

// DBConfig holds the bbolt database settings.
type DBConfig struct {
	// DBPath is the directory path in which the database file should be
	// stored.
	DBPath string `long:"dbpath" description:"The directory path in which the database file should be stored."`

	// DBFileName is the name of the database file.
	DBFileName string `long:"dbfilename" description:"The name of the database file."`

	// NoFreelistSync, if true, prevents the database from syncing its
	// freelist to disk, resulting in improved performance at the expense of
	// increased startup time.
	NoFreelistSync bool `long:"nofreelistsync" description:"Whether the databases used within the database should sync their freelist to disk. This is set to true by default, meaning we don't sync the free-list resulting in improved memory performance during operation, but with an increase in startup time."`

	// AutoCompact specifies if a Bolt based database backend should be
	// automatically compacted on startup (if the minimum age of the
	// database file is reached). This will require additional disk space
	// for the compacted copy of the database but will result in an overall
	// lower database size after the compaction.
	AutoCompact bool `long:"autocompact" description:"Whether the databases used within the database should automatically be compacted on startup (if the minimum age of the database file is reached). This will require additional disk space for the compacted copy of the database but will result in an overall lower database size after the compaction."`

	// AutoCompactMinAge specifies the minimum time that must have passed
	// since a bolt database file was last compacted for the compaction to
	// be considered again.
	AutoCompactMinAge time.Duration `long:"autocompactminage" description:"How long ago (in hours) the database file must be created before considering it for auto compaction."`

	// DBTimeout specifies the timeout value to use when opening the wallet
	// database.
	DBTimeout time.Duration `long:"dbtimeout" description:"Specify the timeout value used when opening the database."`
}

func DefaultDBConfig() *DBConfig {
	return DefaultDBConfigWithHomePath(DefaultPumpdDir)
}

func DefaultDBConfigWithHomePath(homePath string) *DBConfig {
	return &DBConfig{
		DBPath:            DataDir(homePath),
		DBFileName:        defaultDBName,
		NoFreelistSync:    true,
		AutoCompact:       false,
		AutoCompactMinAge: defaultAutoCompactMinAge,
		DBTimeout:         defaultDBTimeout,
	}
}

func (db *DBConfig) Validate() error {
	if db.DBPath == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if db.DBFileName == "" {
		return fmt.Errorf("db file name cannot be empty")
	}

	return nil
}

// GetDBBackend opens the bbolt backend described by the config,
// creating the database file if it does not exist yet.
func (db *DBConfig) GetDBBackend() (kvdb.Backend, error) {
	if err := db.Validate(); err != nil {
		return nil, err
	}

	return kvdb.GetBoltBackend(&kvdb.BoltBackendConfig{
		DBPath:            db.DBPath,
		DBFileName:        db.DBFileName,
		NoFreelistSync:    db.NoFreelistSync,
		AutoCompact:       db.AutoCompact,
		AutoCompactMinAge: db.AutoCompactMinAge,
		DBTimeout:         db.DBTimeout,
	})
}

// DBPathJoin returns the full path of the database file.
func (db *DBConfig) DBPathJoin() string {
	return filepath.Join(db.DBPath, db.DBFileName)
}
