package model

// Operation is a bit flag for the money/identity operations a department may
// originate.
type Operation uint8

const (
	OpWelfare Operation = 1 << iota
	OpTax
	OpIssuance
	OpArrest
	OpTransfer
)

// Department identifies one of the fixed government divisions. The numeric
// code is stable and feeds account id derivation, so values must never be
// reordered.
type Department int

const (
	DepartmentUnknown Department = iota
	DepartmentInternalAffairs
	DepartmentFinance
	DepartmentSecurity
	DepartmentCentralBank
)

type departmentInfo struct {
	key  string
	name string
	ops  Operation
}

var departmentTable = map[Department]departmentInfo{
	DepartmentInternalAffairs: {"internal_affairs", "Internal Affairs", OpWelfare | OpTransfer},
	DepartmentFinance:         {"finance", "Finance", OpTax | OpTransfer},
	DepartmentSecurity:        {"security", "Security", OpArrest | OpTransfer},
	DepartmentCentralBank:     {"central_bank", "Central Bank", OpIssuance | OpTransfer},
}

// AllDepartments returns the fixed set of departments in code order.
func AllDepartments() []Department {
	return []Department{
		DepartmentInternalAffairs,
		DepartmentFinance,
		DepartmentSecurity,
		DepartmentCentralBank,
	}
}

// DepartmentByKey resolves a stored department key back to its enum value.
func DepartmentByKey(key string) (Department, bool) {
	for d, info := range departmentTable {
		if info.key == key {
			return d, true
		}
	}
	return DepartmentUnknown, false
}

// Code returns the small per-department integer used in account id
// derivation. Unknown departments map to 0.
func (d Department) Code() int64 {
	if !d.Valid() {
		return 0
	}
	return int64(d)
}

// Key returns the stable string stored in the database and used for
// permission lookups.
func (d Department) Key() string {
	return departmentTable[d].key
}

// DisplayName returns the human-readable department name.
func (d Department) DisplayName() string {
	if !d.Valid() {
		return "Unknown"
	}
	return departmentTable[d].name
}

// Allows reports whether the department may originate the given operation.
func (d Department) Allows(op Operation) bool {
	return departmentTable[d].ops&op != 0
}

// Valid reports whether d is one of the fixed departments.
func (d Department) Valid() bool {
	_, ok := departmentTable[d]
	return ok
}
