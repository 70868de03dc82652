// Package domain 包含跨组件的界面协调状态
package domain

// Flags 抽屉开关状态，只存在于内存中
type Flags struct {
	IsCartOpen bool `json:"isCartOpen"`
	IsNavOpen  bool `json:"isNavOpen"`
}

// ShowAnnouncement 任一抽屉打开时隐藏公告栏
func (f Flags) ShowAnnouncement() bool {
	return !f.IsCartOpen && !f.IsNavOpen
}
