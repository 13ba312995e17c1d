package sqlx

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"net"
	"regexp"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	uuid "github.com/satori/go.uuid"
)

type DBDriver string
type DBFlavor string

const (
	DBDriverMySQL  DBDriver = "mysql"
	DBDriverSQLite DBDriver = "sqlite3"

	DBFlavorMySQL   DBFlavor = "mysql"
	DBFlavorMariaDB DBFlavor = "mariadb"
	DBFlavorSQLite  DBFlavor = "sqlite"
)

var mariadbVersionRegex = regexp.MustCompile("(.*)-MariaDB")

type DBOption interface {
	config(*dbConfig)
}

func DBUsername(username string) DBOption {
	return &dbUsernameOption{username: username}
}

func DBPassword(password string) DBOption {
	return &dbPasswordOption{password: password}
}

func DBDatabaseName(dbName string) DBOption {
	return &dbDatabaseNameOption{dbName: dbName}
}

func DBHost(host string) DBOption {
	return &dbHostOption{host: host}
}

func DBPort(port int) DBOption {
	return &dbPortOption{port: port}
}

// DBFilePath sets the database file used by the sqlite3 driver.
func DBFilePath(path string) DBOption {
	return &dbFilePathOption{path: path}
}

func DBConnectionMaxLifetime(max time.Duration) DBOption {
	return &dbConnectionMaxLifetime{max: max}
}

func DBRootCAPool(rootCAPool *x509.CertPool) DBOption {
	return &dbTLSConfigOption{
		tlsConfig: &tls.Config{
			RootCAs:    rootCAPool,
			MinVersion: tls.VersionTLS12,
		},
	}
}

type DB struct {
	Conn *sql.DB

	driver  DBDriver
	flavor  DBFlavor
	version string
}

// NewDB wraps an already opened connection. It is mostly useful for tests
// that substitute a mocked *sql.DB.
func NewDB(conn *sql.DB, driver DBDriver, flavor DBFlavor, version string) *DB {
	return &DB{
		Conn:    conn,
		driver:  driver,
		flavor:  flavor,
		version: version,
	}
}

func Connect(driver DBDriver, options ...DBOption) (*DB, error) {
	cfg := &dbConfig{}

	for _, opt := range options {
		opt.config(cfg)
	}

	db, err := open(driver, cfg)
	if err != nil {
		return nil, err
	}

	db.Conn.SetConnMaxLifetime(cfg.connMaxLifetime)

	for attempt := 0; attempt < 10; attempt++ {
		err = db.Ping()
		if err == nil {
			return db, nil
		}
	}

	if err = db.Close(); err != nil {
		return nil, err
	}

	return nil, ErrFailedToEstablishConnection
}

func (db *DB) Driver() DBDriver {
	return db.driver
}

func (db *DB) Flavor() DBFlavor {
	return db.flavor
}

func (db *DB) Version() string {
	return db.version
}

func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.Conn.Exec(query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.Conn.ExecContext(ctx, query, args...)
}

func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.Conn.Query(query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.Conn.QueryContext(ctx, query, args...)
}

func (db *DB) QueryRow(query string, args ...interface{}) squirrel.RowScanner {
	return db.Conn.QueryRow(query, args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) squirrel.RowScanner {
	return db.Conn.QueryRowContext(ctx, query, args...)
}

// BeginTx will generate a Database-aware transaction, with all database information
// duplicated from the Database-aware connection
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.Conn.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &Tx{
		tx:      tx,
		driver:  db.driver,
		flavor:  db.flavor,
		version: db.version,
	}, nil
}

func (db *DB) Close() error {
	return db.Conn.Close()
}

func (db *DB) Ping() error {
	return db.Conn.Ping()
}

func open(driver DBDriver, cfg *dbConfig) (*DB, error) {
	switch driver {
	case DBDriverMySQL:
		return openMySQL(cfg)
	case DBDriverSQLite:
		return openSQLite(cfg)
	default:
		return nil, ErrUnsupportedSQLDriver
	}
}

func openMySQL(cfg *dbConfig) (*DB, error) {
	dataSourceName, err := cfg.dataSourceNameMySQL()
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(string(DBDriverMySQL), dataSourceName)
	if err != nil {
		return nil, err
	}

	var (
		unused    string
		dbVersion string

		flavor  = DBFlavorMySQL
		version string
	)

	// MySQL will error if the system table 'performance_schema.session_variables' doesn't exist
	err = conn.QueryRow(`SHOW VARIABLES LIKE 'version'`).Scan(&unused, &dbVersion)
	if err == nil {
		matches := mariadbVersionRegex.FindStringSubmatch(dbVersion)
		if matches == nil {
			version = dbVersion
		} else {
			flavor = DBFlavorMariaDB
			version = matches[1]
		}
	}

	return NewDB(conn, DBDriverMySQL, flavor, version), nil
}

func openSQLite(cfg *dbConfig) (*DB, error) {
	if cfg.filePath == "" {
		return nil, ErrMissingDatabaseFile
	}

	conn, err := sql.Open(string(DBDriverSQLite), cfg.dataSourceNameSQLite())
	if err != nil {
		return nil, err
	}

	// SQLite serialises writers; a single connection keeps transactions from
	// failing with "database is locked".
	conn.SetMaxOpenConns(1)

	var version string
	if err = conn.QueryRow(`SELECT sqlite_version()`).Scan(&version); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return NewDB(conn, DBDriverSQLite, DBFlavorSQLite, version), nil
}

type dbConfig struct {
	username string
	password string
	dbName   string
	host     string
	port     int
	filePath string

	tlsConfig *tls.Config

	connMaxLifetime time.Duration
}

func (c *dbConfig) dataSourceNameMySQL() (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = c.username
	cfg.Passwd = c.password
	cfg.DBName = c.dbName
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.host, strconv.Itoa(c.port))
	cfg.ParseTime = true

	if c.tlsConfig != nil {
		tlsConfigName := uuid.NewV4().String()
		if err := mysql.RegisterTLSConfig(tlsConfigName, c.tlsConfig); err != nil {
			return "", err
		}

		cfg.TLSConfig = tlsConfigName
	}

	return cfg.FormatDSN(), nil
}

func (c *dbConfig) dataSourceNameSQLite() string {
	return "file:" + c.filePath + "?_foreign_keys=on&_busy_timeout=5000&_loc=UTC"
}

type dbUsernameOption struct {
	username string
}

func (o *dbUsernameOption) config(c *dbConfig) {
	c.username = o.username
}

type dbPasswordOption struct {
	password string
}

func (o *dbPasswordOption) config(c *dbConfig) {
	c.password = o.password
}

type dbDatabaseNameOption struct {
	dbName string
}

func (o *dbDatabaseNameOption) config(c *dbConfig) {
	c.dbName = o.dbName
}

type dbHostOption struct {
	host string
}

func (o *dbHostOption) config(c *dbConfig) {
	c.host = o.host
}

type dbPortOption struct {
	port int
}

func (o *dbPortOption) config(c *dbConfig) {
	c.port = o.port
}

type dbFilePathOption struct {
	path string
}

func (o *dbFilePathOption) config(c *dbConfig) {
	c.filePath = o.path
}

type dbTLSConfigOption struct {
	tlsConfig *tls.Config
}

func (o *dbTLSConfigOption) config(c *dbConfig) {
	c.tlsConfig = o.tlsConfig
}

type dbConnectionMaxLifetime struct {
	max time.Duration
}

func (o *dbConnectionMaxLifetime) config(c *dbConfig) {
	c.connMaxLifetime = o.max
}
