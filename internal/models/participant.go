package models

const (
	SideFor     = "for"
	SideAgainst = "against"
	SideNone    = "none"
)

// Participant 表示房間內的一位參與者
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Side  string `json:"side"`
	Color string `json:"color"`
}
