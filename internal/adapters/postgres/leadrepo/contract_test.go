package leadrepo

import (
	"testing"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/contracttest"
	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/postgres/testutil"
	leadrepoport "github.com/Meridian-Yachting/brokerage-api/internal/ports/out/leadrepo"
)

func TestContract_PostgresLeadRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunLeadRepo(t, func(t *testing.T) (leadrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}
