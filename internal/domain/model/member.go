package model

// Member represents a loyalty program participant identified by the
// transport-provided numeric id.
type Member struct {
	ID          int64
	Username    string
	DisplayName string
	Stamps      int
	RewardBank  int
}

// MemberPage is one page of the id-ascending member listing.
type MemberPage struct {
	Members    []Member
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}
