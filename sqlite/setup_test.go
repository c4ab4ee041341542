package sqlite

import (
	"io"
	"testing"

	"github.com/Thiht/transactor"
	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
)

func setupTestDB(t *testing.T) (transactor.Transactor, txStdLib.DBGetter) {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return txStdLib.NewTransactor(db, txStdLib.NestedTransactionsSavepoints)
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}
