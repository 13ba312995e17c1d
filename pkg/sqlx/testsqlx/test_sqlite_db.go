package testsqlx

import (
	"os"
	"path/filepath"

	"code.cloudfoundry.org/permstore/pkg/sqlx"
	uuid "github.com/satori/go.uuid"
)

type TestSQLiteDB struct {
	path string
}

func NewTestSQLiteDB() *TestSQLiteDB {
	return &TestSQLiteDB{
		path: filepath.Join(os.TempDir(), "permstore_test_"+uuid.NewV4().String()+".db"),
	}
}

func (db *TestSQLiteDB) Path() string {
	return db.path
}

func (db *TestSQLiteDB) Create(migrations ...sqlx.Migration) error {
	conn, err := db.Connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err = applyMigrations(conn, migrations); err != nil {
		_ = db.Drop()
		return err
	}

	return nil
}

func (db *TestSQLiteDB) Connect() (*sqlx.DB, error) {
	return sqlx.Connect(sqlx.DBDriverSQLite, sqlx.DBFilePath(db.path))
}

func (db *TestSQLiteDB) Truncate(truncateStmts ...string) error {
	return truncate(db, truncateStmts...)
}

func (db *TestSQLiteDB) Drop() error {
	err := os.Remove(db.path)
	if os.IsNotExist(err) {
		return nil
	}

	return err
}
