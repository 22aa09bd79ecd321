package model

// StatusView is the member-facing balance presentation. Bar always renders
// ten slots; the filled count saturates at ten while Stamps keeps counting.
type StatusView struct {
	Stamps     int
	RewardBank int
	Bar        string
}
