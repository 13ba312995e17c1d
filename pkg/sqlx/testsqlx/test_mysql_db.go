package testsqlx

import (
	"fmt"
	"strings"

	"code.cloudfoundry.org/permstore/pkg/sqlx"
	"github.com/kelseyhightower/envconfig"
	uuid "github.com/satori/go.uuid"
)

// MySQLConfig is read from TEST_MYSQL_* environment variables.
type MySQLConfig struct {
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT" default:"3306"`
	Database string `envconfig:"DATABASE"`
	Username string `envconfig:"USERNAME" default:"root"`
	Password string `envconfig:"PASSWORD"`
}

// LoadMySQLConfig reports false when no TEST_MYSQL_HOST is configured, in
// which case MySQL-backed suites should be skipped.
func LoadMySQLConfig() (MySQLConfig, bool, error) {
	var cfg MySQLConfig
	if err := envconfig.Process("test_mysql", &cfg); err != nil {
		return MySQLConfig{}, false, err
	}

	return cfg, cfg.Host != "", nil
}

type TestMySQLDB struct {
	config MySQLConfig
}

func NewTestMySQLDB(config MySQLConfig) *TestMySQLDB {
	if config.Database == "" {
		config.Database = fmt.Sprintf("test_%s", strings.Replace(uuid.NewV4().String(), "-", "_", -1))
	}

	return &TestMySQLDB{
		config: config,
	}
}

func (db *TestMySQLDB) Create(migrations ...sqlx.Migration) error {
	if err := db.exec(fmt.Sprintf("CREATE DATABASE %s", db.config.Database)); err != nil {
		return err
	}

	conn, err := db.Connect()
	if err != nil {
		_ = db.Drop()
		return err
	}
	defer conn.Close()

	if err = applyMigrations(conn, migrations); err != nil {
		_ = db.Drop()
		return err
	}

	return nil
}

func (db *TestMySQLDB) Drop() error {
	return db.exec(fmt.Sprintf("DROP DATABASE %s", db.config.Database))
}

func (db *TestMySQLDB) Connect() (*sqlx.DB, error) {
	return sqlx.Connect(sqlx.DBDriverMySQL, db.options(db.config.Database)...)
}

func (db *TestMySQLDB) Truncate(truncateStmts ...string) error {
	return truncate(db, truncateStmts...)
}

func (db *TestMySQLDB) options(database string) []sqlx.DBOption {
	return []sqlx.DBOption{
		sqlx.DBUsername(db.config.Username),
		sqlx.DBPassword(db.config.Password),
		sqlx.DBHost(db.config.Host),
		sqlx.DBPort(db.config.Port),
		sqlx.DBDatabaseName(database),
	}
}

func (db *TestMySQLDB) exec(stmt string) error {
	conn, err := sqlx.Connect(sqlx.DBDriverMySQL, db.options("")...)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Exec(stmt)
	return err
}
