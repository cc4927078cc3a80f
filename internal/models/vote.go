package models

// VoteRecord 是房間內各方的票數
type VoteRecord map[string]int

// NewVoteRecord 創建初始票數 {for: 0, against: 0}
func NewVoteRecord() VoteRecord {
	return VoteRecord{SideFor: 0, SideAgainst: 0}
}

// VoteResults 是投票結果查詢的回應
type VoteResults struct {
	RoomID  string     `json:"roomId"`
	Results VoteRecord `json:"results"`
}
