package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/employee"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEmployees(t *testing.T, ctx context.Context, setup *TestDatabaseSetup) {
	t.Helper()
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO employees (token_no, name, group_name, desig) VALUES
			('T1', 'Ayu', 'G1', 'Operator'),
			('T2', 'Budi', 'G1', 'Operator'),
			('T3', 'Citra', 'G2', 'Leader'),
			('T4', 'Dewi', NULL, NULL)
	`)
	require.NoError(t, err)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	seedEmployees(t, ctx, setup)

	repo := postgresql.NewEmployeeRepository(setup.DB)

	t.Run("refs by group", func(t *testing.T) {
		refs, err := repo.ListRefs(ctx, employee.RefFilter{Group: "G1"})
		require.NoError(t, err)
		require.Len(t, refs, 2)
		assert.Equal(t, "T1", refs[0].Token)
		assert.Equal(t, "G1", *refs[0].Group)
	})

	t.Run("refs with any group", func(t *testing.T) {
		refs, err := repo.ListRefs(ctx, employee.RefFilter{GroupNotNull: true})
		require.NoError(t, err)
		assert.Len(t, refs, 3)
	})

	t.Run("groups are distinct and sorted", func(t *testing.T) {
		groups, err := repo.ListGroups(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"G1", "G2"}, groups)
	})

	t.Run("get by token", func(t *testing.T) {
		e, err := repo.GetByTokenNo(ctx, "T3")
		require.NoError(t, err)
		assert.Equal(t, "Citra", e.Name)

		_, err = repo.GetByTokenNo(ctx, "missing")
		assert.True(t, errors.Is(err, employee.ErrEmployeeNotFound))
	})

	t.Run("list by group", func(t *testing.T) {
		list, err := repo.List(ctx, employee.EmployeeFilter{Group: "G2"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "T3", list[0].TokenNo)
	})
}

func TestAttendanceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	seedEmployees(t, ctx, setup)

	repo := postgresql.NewAttendanceRepository(setup.DB)
	aug1 := date(2025, time.August, 1)

	first, err := repo.Upsert(ctx, attendance.Attendance{
		TokenNo: "T1", AttendanceDate: aug1, Status: attendance.StatusPresent, Group: strPtr("G1"), CreatedBy: strPtr("u-1"),
	})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, attendance.Attendance{
		TokenNo: "T1", AttendanceDate: aug1, Status: attendance.StatusAbsent, Group: strPtr("G1"), Notes: strPtr("sick"),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same (token, date) updates in place")
	assert.Equal(t, attendance.StatusAbsent, second.Status)
	assert.Equal(t, "u-1", *second.CreatedBy)

	_, err = repo.Upsert(ctx, attendance.Attendance{
		TokenNo: "T3", AttendanceDate: date(2025, time.August, 2), Status: attendance.StatusLeave, Group: strPtr("G2"),
	})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, attendance.Attendance{
		TokenNo: "T2", AttendanceDate: date(2025, time.September, 1), Status: attendance.StatusAbsent, Group: strPtr("G1"),
	})
	require.NoError(t, err)

	from, to := aug1, date(2025, time.August, 31)

	t.Run("period by group", func(t *testing.T) {
		records, err := repo.ListForPeriod(ctx, attendance.PeriodFilter{Group: "G1", DateFrom: from, DateTo: to})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, attendance.Record{Token: "T1", Date: aug1, Status: attendance.StatusAbsent}, records[0])
	})

	t.Run("period by tokens", func(t *testing.T) {
		records, err := repo.ListForPeriod(ctx, attendance.PeriodFilter{Tokens: []string{"T1", "T3"}, DateFrom: from, DateTo: to})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("list filters", func(t *testing.T) {
		list, err := repo.List(ctx, attendance.AttendanceFilter{StartDate: "2025-08-01", EndDate: "2025-08-31"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "T3", list[0].TokenNo, "newest first")

		list, err = repo.List(ctx, attendance.AttendanceFilter{TokenNo: "T2"})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestCompletionRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	_, err := setup.DB.Exec(ctx, `
		INSERT INTO fg_completion (transaction_date, item, index_factor, index_qty, class) VALUES
			('2025-07-31 23:59:59+00', 'Z', 1, 3, 'G1'),
			('2025-08-01 08:00:00+00', 'A', 1.5, 40, 'G1'),
			('2025-08-31 00:00:00+00', 'B', NULL, 5, NULL),
			('2025-08-31 08:00:00+00', 'D', 1, 10, 'G1'),
			('2025-08-31 23:59:59+00', 'E', 1, 2, 'G1'),
			('2025-09-01 00:00:00+00', 'C', 1, 7, 'G1')
	`)
	require.NoError(t, err)

	repo := postgresql.NewCompletionRepository(setup.DB)
	txs, err := repo.ListByDateRange(ctx, date(2025, time.August, 1), date(2025, time.August, 31))
	require.NoError(t, err)

	require.Len(t, txs, 4)
	assert.Equal(t, 40.0, txs[0].Qty())
	assert.Equal(t, "2025-08-01", txs[0].DateKey())
	assert.Nil(t, txs[1].Class)

	t.Run("last day after midnight is included", func(t *testing.T) {
		assert.Equal(t, 10.0, txs[2].Qty())
		assert.Equal(t, "2025-08-31", txs[2].DateKey())
		assert.Equal(t, 2.0, txs[3].Qty())
		assert.Equal(t, "2025-08-31", txs[3].DateKey())
	})
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	seedEmployees(t, ctx, setup)

	repo := postgresql.NewAttendanceRepository(setup.DB)
	tr := postgresql.NewTransactor(setup.DB)
	boom := errors.New("boom")

	err := tr.WithinTx(ctx, func(ctx context.Context) error {
		_, err := repo.Upsert(ctx, attendance.Attendance{
			TokenNo: "T1", AttendanceDate: date(2025, time.August, 3), Status: attendance.StatusAbsent,
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := repo.List(ctx, attendance.AttendanceFilter{TokenNo: "T1"})
	require.NoError(t, err)
	assert.Empty(t, list)
}
