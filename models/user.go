package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"-"`
	Role      int       `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// 角色常量
const (
	RoleUser  = 0 // 普通用户
	RoleAdmin = 1 // 管理员
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
