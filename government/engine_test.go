package government

import (
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gov-bot/model"
	govdb "gov-bot/utils/database/government"
)

const testGuild = "200"

var president = Actor{ID: "president"}

func newTestEngine(t *testing.T) (*Engine, *fakeLedger, *sqlx.DB) {
	t.Helper()
	db := newTestDB(t)
	ledger := newFakeLedger()
	engine := NewEngine(db, ledger)
	_, err := engine.SetupGuild(testGuild, "president", "", "citizen-role", "suspect-role", 0)
	require.NoError(t, err)
	return engine, ledger, db
}

func accountKey(t *testing.T, dept model.Department) string {
	t.Helper()
	numeric, err := ParseGuildID(testGuild)
	require.NoError(t, err)
	return strconv.FormatInt(DepartmentAccountID(numeric, dept), 10)
}

func cachedBalance(t *testing.T, db *sqlx.DB, dept model.Department) int64 {
	t.Helper()
	numeric, err := ParseGuildID(testGuild)
	require.NoError(t, err)
	account, err := govdb.GetAccount(db, DepartmentAccountID(numeric, dept))
	require.NoError(t, err)
	return account.Balance
}

func TestSetupGuildCreatesAllDepartmentAccounts(t *testing.T) {
	_, _, db := newTestEngine(t)

	accounts, err := govdb.ListAccounts(db, testGuild)
	require.NoError(t, err)
	require.Len(t, accounts, len(model.AllDepartments()))
	for _, account := range accounts {
		assert.Equal(t, int64(0), account.Balance)
	}

	cfg, err := govdb.GetGovConfig(db, testGuild)
	require.NoError(t, err)
	for _, dept := range model.AllDepartments() {
		assert.NotZero(t, cfg.AccountIDFor(dept))
	}
}

func TestSetupGuildReusesExistingAccounts(t *testing.T) {
	engine, _, db := newTestEngine(t)

	before, err := govdb.GetGovConfig(db, testGuild)
	require.NoError(t, err)

	after, err := engine.SetupGuild(testGuild, "president", "crown", "citizen-role", "suspect-role", 24)
	require.NoError(t, err)

	for _, dept := range model.AllDepartments() {
		assert.Equal(t, before.AccountIDFor(dept), after.AccountIDFor(dept))
	}
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Equal(t, 24, after.AutoReleaseHours)

	accounts, err := govdb.ListAccounts(db, testGuild)
	require.NoError(t, err)
	assert.Len(t, accounts, len(model.AllDepartments()))
}

func TestSetupGuildRequiresLeader(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, newFakeLedger())
	_, err := engine.SetupGuild(testGuild, "", "", "", "", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIssueCurrencyCreditsCentralBank(t *testing.T) {
	engine, ledger, db := newTestEngine(t)

	record, err := engine.IssueCurrency(testGuild, model.DepartmentCentralBank, president, 5000, "initial issue", "")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), record.Amount)
	assert.NotEmpty(t, record.Period)

	assert.Equal(t, int64(5000), ledger.balances[accountKey(t, model.DepartmentCentralBank)])
	assert.Equal(t, int64(5000), cachedBalance(t, db, model.DepartmentCentralBank))
}

func TestIssueCurrencyWrongDepartment(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	_, err := engine.IssueCurrency(testGuild, model.DepartmentFinance, president, 100, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIssueCurrencyMonthlyCap(t *testing.T) {
	engine, ledger, _ := newTestEngine(t)
	require.NoError(t, govdb.UpsertDepartmentSetting(engine.db, model.DepartmentSetting{
		GuildID:             testGuild,
		Department:          model.DepartmentCentralBank.Key(),
		MaxIssuancePerMonth: 1000,
		UpdatedAt:           time.Now().Unix(),
	}))

	_, err := engine.IssueCurrency(testGuild, model.DepartmentCentralBank, president, 900, "", "2026-08")
	require.NoError(t, err)

	// Over the cap: refused before any state changes.
	_, err = engine.IssueCurrency(testGuild, model.DepartmentCentralBank, president, 150, "", "2026-08")
	assert.ErrorIs(t, err, ErrMonthlyIssuanceLimit)
	assert.Equal(t, int64(900), ledger.balances[accountKey(t, model.DepartmentCentralBank)])

	issued, err := govdb.SumIssuedInMonth(engine.db, testGuild, "2026-08")
	require.NoError(t, err)
	assert.Equal(t, int64(900), issued)

	// Exactly filling the cap is allowed.
	_, err = engine.IssueCurrency(testGuild, model.DepartmentCentralBank, president, 100, "", "2026-08")
	require.NoError(t, err)

	// A new month starts a fresh budget.
	_, err = engine.IssueCurrency(testGuild, model.DepartmentCentralBank, president, 1000, "", "2026-09")
	require.NoError(t, err)
}

func TestCollectTaxFloorsAmount(t *testing.T) {
	engine, ledger, db := newTestEngine(t)
	ledger.balances["taxpayer"] = 10_000

	record, err := engine.CollectTax(testGuild, model.DepartmentFinance, president, "taxpayer", 1000, 15, "2026-08", "income tax")
	require.NoError(t, err)
	assert.Equal(t, int64(150), record.TaxAmount)
	assert.Equal(t, int64(1000), record.TaxableAmount)

	record, err = engine.CollectTax(testGuild, model.DepartmentFinance, president, "taxpayer", 999, 10, "2026-08", "income tax")
	require.NoError(t, err)
	assert.Equal(t, int64(99), record.TaxAmount, "tax must round down")

	assert.Equal(t, int64(10_000-150-99), ledger.balances["taxpayer"])
	assert.Equal(t, int64(249), cachedBalance(t, db, model.DepartmentFinance))
}

func TestCollectTaxValidation(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.CollectTax(testGuild, model.DepartmentFinance, president, "taxpayer", 0, 10, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = engine.CollectTax(testGuild, model.DepartmentFinance, president, "taxpayer", 1000, 101, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	// 5 * 10% floors to zero: refused rather than recorded as a no-op.
	_, err = engine.CollectTax(testGuild, model.DepartmentFinance, president, "taxpayer", 5, 10, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = engine.CollectTax(testGuild, model.DepartmentSecurity, president, "taxpayer", 1000, 10, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDisburseWelfareInsufficientFunds(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	_, err := engine.DisburseWelfare(testGuild, model.DepartmentInternalAffairs, president, "citizen1", 500, "general", "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestDisburseWelfareWrongDepartment(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	_, err := engine.DisburseWelfare(testGuild, model.DepartmentFinance, president, "citizen1", 500, "general", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTransferBetweenDepartmentsRejectsSelf(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	_, err := engine.TransferBetweenDepartments(testGuild, model.DepartmentFinance, model.DepartmentFinance, president, 100, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOperationsRequirePermission(t *testing.T) {
	engine, ledger, _ := newTestEngine(t)
	ledger.balances[accountKey(t, model.DepartmentCentralBank)] = 10_000
	nobody := Actor{ID: "nobody"}

	_, err := engine.IssueCurrency(testGuild, model.DepartmentCentralBank, nobody, 100, "", "")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = engine.TransferBetweenDepartments(testGuild, model.DepartmentCentralBank, model.DepartmentFinance, nobody, 100, "")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = engine.DisburseWelfare(testGuild, model.DepartmentInternalAffairs, nobody, "citizen1", 100, "general", "")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDepartmentRoleGrantsOperation(t *testing.T) {
	engine, ledger, _ := newTestEngine(t)
	require.NoError(t, govdb.UpsertDepartmentSetting(engine.db, model.DepartmentSetting{
		GuildID:    testGuild,
		Department: model.DepartmentCentralBank.Key(),
		RoleID:     "bankers",
		UpdatedAt:  time.Now().Unix(),
	}))

	banker := Actor{ID: "clerk", Roles: []string{"bankers"}}
	_, err := engine.IssueCurrency(testGuild, model.DepartmentCentralBank, banker, 100, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(100), ledger.balances[accountKey(t, model.DepartmentCentralBank)])
}

func TestTreasuryFlowConservesMoney(t *testing.T) {
	engine, ledger, db := newTestEngine(t)

	_, err := engine.IssueCurrency(testGuild, model.DepartmentCentralBank, president, 5000, "budget", "")
	require.NoError(t, err)

	_, err = engine.TransferBetweenDepartments(testGuild, model.DepartmentCentralBank, model.DepartmentInternalAffairs, president, 2000, "welfare budget")
	require.NoError(t, err)

	_, err = engine.DisburseWelfare(testGuild, model.DepartmentInternalAffairs, president, "citizen1", 500, "general", "monthly welfare")
	require.NoError(t, err)

	assert.Equal(t, int64(3000), ledger.balances[accountKey(t, model.DepartmentCentralBank)])
	assert.Equal(t, int64(1500), ledger.balances[accountKey(t, model.DepartmentInternalAffairs)])
	assert.Equal(t, int64(500), ledger.balances["citizen1"])

	// Cache mirrors the authoritative balances.
	assert.Equal(t, int64(3000), cachedBalance(t, db, model.DepartmentCentralBank))
	assert.Equal(t, int64(1500), cachedBalance(t, db, model.DepartmentInternalAffairs))

	// Exactly one audit record per operation.
	issuances, err := govdb.ListCurrencyIssuances(db, testGuild, 10, 0)
	require.NoError(t, err)
	assert.Len(t, issuances, 1)
	transfers, err := govdb.ListTransferRecords(db, testGuild, 10, 0)
	require.NoError(t, err)
	assert.Len(t, transfers, 1)
	welfare, err := govdb.ListWelfareRecords(db, testGuild, 10, 0)
	require.NoError(t, err)
	assert.Len(t, welfare, 1)
}

func TestTransferDepartmentToUser(t *testing.T) {
	engine, ledger, db := newTestEngine(t)
	_, err := engine.IssueCurrency(testGuild, model.DepartmentCentralBank, president, 1000, "", "")
	require.NoError(t, err)

	record, err := engine.TransferDepartmentToUser(testGuild, model.DepartmentCentralBank, president, "contractor", 400, "grant")
	require.NoError(t, err)
	assert.Equal(t, "contractor", record.RecipientID)
	assert.Empty(t, record.ToDepartment)

	assert.Equal(t, int64(400), ledger.balances["contractor"])
	assert.Equal(t, int64(600), cachedBalance(t, db, model.DepartmentCentralBank))
}

func TestTransferInsufficientFundsLeavesStateUntouched(t *testing.T) {
	engine, ledger, db := newTestEngine(t)
	_, err := engine.IssueCurrency(testGuild, model.DepartmentCentralBank, president, 100, "", "")
	require.NoError(t, err)

	_, err = engine.TransferBetweenDepartments(testGuild, model.DepartmentCentralBank, model.DepartmentFinance, president, 500, "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Equal(t, int64(100), ledger.balances[accountKey(t, model.DepartmentCentralBank)])
	assert.Equal(t, int64(100), cachedBalance(t, db, model.DepartmentCentralBank))

	transfers, err := govdb.ListTransferRecords(db, testGuild, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, transfers)
}
