package model

// 角色常量
const (
	RoleAdmin     = "admin"
	RoleCounselor = "counselor"
	RoleStudent   = "student"
)

// User 用户表 — 对应 users
type User struct {
	Username     string `gorm:"column:username;type:text;primaryKey" json:"username"`
	PasswordHash string `gorm:"column:password;not null"             json:"-"`
	Role         string `gorm:"column:role;not null"                 json:"role"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// ValidRole 检查角色是否为系统已知角色
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCounselor, RoleStudent:
		return true
	}
	return false
}
