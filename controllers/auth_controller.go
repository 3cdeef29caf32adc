package controllers

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-ionicdose/middleware"
	"go-ionicdose/models"
	"go-ionicdose/utils"
)

// AuthController 处理用户认证相关的请求
type AuthController struct {
	DB        *sql.DB
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *zap.Logger
}

// NewAuthController 创建一个新的AuthController实例
func NewAuthController(db *sql.DB, secret string, ttl time.Duration, logger *zap.Logger) *AuthController {
	return &AuthController{DB: db, JWTSecret: secret, TokenTTL: ttl, Logger: logger}
}

// Register 用户注册
func (c *AuthController) Register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	// 检查用户名是否已存在
	var count int
	err := c.DB.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", req.Username).Scan(&count)
	if err != nil {
		c.Logger.Error("query user failed", zap.Error(err))
		utils.InternalServerError(ctx, "数据库查询失败")
		return
	}
	if count > 0 {
		utils.Conflict(ctx, "用户名已存在")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.InternalServerError(ctx, "密码加密失败")
		return
	}

	result, err := c.DB.Exec(
		"INSERT INTO users (username, password, role) VALUES (?, ?, ?)",
		req.Username, string(hashedPassword), models.RoleUser,
	)
	if err != nil {
		c.Logger.Error("insert user failed", zap.Error(err))
		utils.InternalServerError(ctx, "创建用户失败")
		return
	}

	userID, err := result.LastInsertId()
	if err != nil {
		utils.InternalServerError(ctx, "获取用户ID失败")
		return
	}

	token, err := middleware.GenerateToken(c.JWTSecret, int(userID), models.RoleUser, c.TokenTTL)
	if err != nil {
		utils.InternalServerError(ctx, "生成令牌失败")
		return
	}

	utils.Created(ctx, gin.H{
		"token":      token,
		"username":   req.Username,
		"customerId": userID,
	})
}

// Login 用户登录
func (c *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	var user models.User
	err := c.DB.QueryRow(
		"SELECT id, username, password, role FROM users WHERE username = ?",
		req.Username,
	).Scan(&user.ID, &user.Username, &user.Password, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.Unauthorized(ctx, "用户名或密码错误")
		} else {
			c.Logger.Error("query user failed", zap.Error(err))
			utils.InternalServerError(ctx, "数据库查询失败")
		}
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.Unauthorized(ctx, "用户名或密码错误")
		return
	}

	token, err := middleware.GenerateToken(c.JWTSecret, user.ID, user.Role, c.TokenTTL)
	if err != nil {
		utils.InternalServerError(ctx, "生成令牌失败")
		return
	}

	utils.Success(ctx, gin.H{
		"token":      token,
		"username":   user.Username,
		"customerId": user.ID,
	})
}
