package model

// Audit records are append-only: rows are inserted once and never updated.
// Amounts are signed integers in the smallest currency unit.

// WelfareRecord captures one welfare disbursement.
type WelfareRecord struct {
	ID          int64  `db:"id"`
	GuildID     string `db:"guild_id"`
	RecipientID string `db:"recipient_id"`
	AdminID     string `db:"admin_id"`
	Amount      int64  `db:"amount"`
	WelfareType string `db:"welfare_type"`
	Reason      string `db:"reason"`
	Timestamp   int64  `db:"timestamp"`
}

// TaxRecord captures one tax collection, keeping both the gross taxable
// amount and the computed tax.
type TaxRecord struct {
	ID            int64  `db:"id"`
	GuildID       string `db:"guild_id"`
	TaxpayerID    string `db:"taxpayer_id"`
	AdminID       string `db:"admin_id"`
	TaxableAmount int64  `db:"taxable_amount"`
	TaxAmount     int64  `db:"tax_amount"`
	RatePercent   int64  `db:"rate_percent"`
	Period        string `db:"period"`
	Reason        string `db:"reason"`
	Timestamp     int64  `db:"timestamp"`
}

// CurrencyIssuance captures money creation by the central bank. Period is
// the calendar month in "2006-01" form and drives the monthly cap query.
type CurrencyIssuance struct {
	ID        int64  `db:"id"`
	GuildID   string `db:"guild_id"`
	AdminID   string `db:"admin_id"`
	Amount    int64  `db:"amount"`
	Period    string `db:"period"`
	Reason    string `db:"reason"`
	Timestamp int64  `db:"timestamp"`
}

// TransferRecord captures a department-to-department or department-to-user
// transfer. ToDepartment is empty and RecipientID set for user transfers.
type TransferRecord struct {
	ID             int64  `db:"id"`
	GuildID        string `db:"guild_id"`
	FromDepartment string `db:"from_department"`
	ToDepartment   string `db:"to_department"`
	FromAccountID  int64  `db:"from_account_id"`
	ToAccountID    int64  `db:"to_account_id"`
	RecipientID    string `db:"recipient_id"`
	AdminID        string `db:"admin_id"`
	Amount         int64  `db:"amount"`
	Reason         string `db:"reason"`
	Timestamp      int64  `db:"timestamp"`
}

// Identity record actions.
const (
	IdentityActionArrest      = "arrest"
	IdentityActionMarkSuspect = "mark_suspect"
	IdentityActionRelease     = "release"
	IdentityActionCharge      = "charge" // written by the external justice workflow
	IdentityActionRoleAssign  = "role_assign"
)

// IdentityRecord captures a suspect-lifecycle or role-assignment action.
type IdentityRecord struct {
	ID           int64  `db:"id"`
	GuildID      string `db:"guild_id"`
	UserID       string `db:"user_id"`
	UserUsername string `db:"user_username"`
	AdminID      string `db:"admin_id"`
	Action       string `db:"action"`
	Reason       string `db:"reason"`
	Timestamp    int64  `db:"timestamp"`
}
