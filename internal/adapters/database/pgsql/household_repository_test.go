package pgsql

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// The recomputed total must cover every member balance regardless of account
// status: credits propagate to the household total unconditionally, so a
// status-filtered sum would report drift that is not there and let the
// recalculation job overwrite a correct total.
func TestSumMemberBalancesInTx_CountsAllMemberStatuses(t *testing.T) {
	tx := &fakeTx{row: fakeRow{values: []any{decimal.NewFromInt(130), 3}}}
	repo := &PgxHouseholdRepository{BaseRepository: BaseRepository{Pool: &fakePool{}}}

	sum, count, err := repo.SumMemberBalancesInTx(context.Background(), tx, "hh-1")

	require.NoError(t, err)
	require.True(t, sum.Equal(decimal.NewFromInt(130)))
	require.Equal(t, 3, count)

	require.Len(t, tx.queryRowSQL, 1)
	require.NotContains(t, tx.queryRowSQL[0], "status")
	require.Equal(t, []any{"hh-1"}, tx.queryRowArgs[0])
}
