package model

// AdminActionKind enumerates operator console actions.
type AdminActionKind int

const (
	AdminAddStamp AdminActionKind = iota
	AdminRedeem
	AdminBank
	AdminHistory
	AdminSelect
	AdminListPage
)

// AdminAction is a parsed operator console action. MemberID carries the
// target for member-scoped kinds, Page the requested index for AdminListPage.
type AdminAction struct {
	Kind     AdminActionKind
	MemberID int64
	Page     int
}
