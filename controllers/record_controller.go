package controllers

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid"
	"go.uber.org/zap"

	"go-ionicdose/dilution"
	"go-ionicdose/models"
	"go-ionicdose/utils"
)

// 分享码字母表与长度
const (
	shareCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	shareCodeLength   = 16
)

// RecordController 处理用量记录相关的请求
type RecordController struct {
	DB     *sql.DB
	Calc   *dilution.Calculator
	Logger *zap.Logger

	// 测试中可替换
	NewShareCode func() (string, error)
}

// NewRecordController 创建一个新的RecordController实例
func NewRecordController(db *sql.DB, calc *dilution.Calculator, logger *zap.Logger) *RecordController {
	return &RecordController{
		DB:     db,
		Calc:   calc,
		Logger: logger,
		NewShareCode: func() (string, error) {
			return gonanoid.Generate(shareCodeAlphabet, shareCodeLength)
		},
	}
}

const recordColumns = `id, user_id, share_code, volume, unit, application_id, concentrate_mode,
	dose_ml, dose_drops, summary, note, created_at`

func scanRecord(row interface{ Scan(...any) error }) (models.DoseRecord, error) {
	var r models.DoseRecord
	var summary, note sql.NullString
	err := row.Scan(&r.ID, &r.UserID, &r.ShareCode, &r.Volume, &r.Unit, &r.ApplicationID, &r.ConcentrateMode,
		&r.DoseMilliliters, &r.DoseDrops, &summary, &note, &r.CreatedAt)
	r.Summary = summary.String
	r.Note = note.String
	return r, err
}

// SaveDoseRecord 保存用量记录，用量由服务端计算
func (c *RecordController) SaveDoseRecord(ctx *gin.Context) {
	userID := ctx.GetInt("userID")
	var in models.SaveDoseRecordRequest
	if err := ctx.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	req, err := in.Request()
	if err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	if req.Volume <= 0 {
		utils.BadRequest(ctx, "volume must be a positive number")
		return
	}

	dose := BuildDoseResponse(c.Calc, req)
	code, err := c.NewShareCode()
	if err != nil {
		utils.InternalServerError(ctx, "生成分享码失败")
		return
	}

	record := models.DoseRecord{
		UserID:          userID,
		ShareCode:       code,
		Volume:          dose.Request.Volume,
		Unit:            dose.Request.Unit.String(),
		ApplicationID:   dose.Request.ApplicationID,
		ConcentrateMode: dose.Request.Mode.String(),
		DoseMilliliters: dose.Result.DoseMilliliters,
		DoseDrops:       dose.Result.DoseDrops,
		Summary:         dose.Summary,
		Note:            in.Note,
	}

	result, err := c.DB.Exec(`
		INSERT INTO dose_records (
			user_id, share_code, volume, unit, application_id, concentrate_mode,
			dose_ml, dose_drops, summary, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.UserID, record.ShareCode, record.Volume, record.Unit, record.ApplicationID, record.ConcentrateMode,
		record.DoseMilliliters, record.DoseDrops, record.Summary, record.Note,
	)
	if err != nil {
		c.Logger.Error("insert dose record failed", zap.Error(err), zap.Int("user_id", userID))
		utils.InternalServerError(ctx, "保存记录失败")
		return
	}

	record.ID, err = result.LastInsertId()
	if err != nil {
		utils.InternalServerError(ctx, "获取记录ID失败")
		return
	}

	utils.Created(ctx, record)
}

// GetDoseRecords 获取当前用户的用量记录
func (c *RecordController) GetDoseRecords(ctx *gin.Context) {
	where := " WHERE user_id = ?"
	params := []any{ctx.GetInt("userID")}
	if applicationID := ctx.Query("applicationId"); applicationID != "" {
		where += " AND application_id = ?"
		params = append(params, applicationID)
	}
	c.listRecords(ctx, where, params)
}

// GetAllDoseRecords 管理员查看所有用户的记录，可按 userId、applicationId 过滤
func (c *RecordController) GetAllDoseRecords(ctx *gin.Context) {
	var conditions []string
	var params []any
	if v := ctx.Query("userId"); v != "" {
		userID, err := strconv.Atoi(v)
		if err != nil {
			utils.BadRequest(ctx, "invalid userId")
			return
		}
		conditions = append(conditions, "user_id = ?")
		params = append(params, userID)
	}
	if applicationID := ctx.Query("applicationId"); applicationID != "" {
		conditions = append(conditions, "application_id = ?")
		params = append(params, applicationID)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}
	c.listRecords(ctx, where, params)
}

func (c *RecordController) listRecords(ctx *gin.Context, where string, params []any) {
	page := utils.ParsePage(ctx)

	var totalCount int
	if err := c.DB.QueryRow("SELECT COUNT(*) FROM dose_records"+where, params...).Scan(&totalCount); err != nil {
		c.Logger.Error("count dose records failed", zap.Error(err))
		utils.InternalServerError(ctx, "获取总记录数失败")
		return
	}

	query := "SELECT " + recordColumns + " FROM dose_records" + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := c.DB.Query(query, append(params, page.Size, page.Offset())...)
	if err != nil {
		c.Logger.Error("query dose records failed", zap.Error(err))
		utils.InternalServerError(ctx, "查询记录失败")
		return
	}
	defer rows.Close()

	records := []models.DoseRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			utils.InternalServerError(ctx, "解析记录失败")
			return
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		utils.InternalServerError(ctx, "查询记录失败")
		return
	}

	utils.SuccessWithPagination(ctx, records, totalCount, page)
}

// GetDoseRecord 获取单个用量记录
func (c *RecordController) GetDoseRecord(ctx *gin.Context) {
	userID := ctx.GetInt("userID")
	id, err := strconv.ParseInt(ctx.Query("id"), 10, 64)
	if err != nil {
		utils.BadRequest(ctx, "invalid id")
		return
	}

	row := c.DB.QueryRow("SELECT "+recordColumns+" FROM dose_records WHERE id = ? AND user_id = ?", id, userID)
	c.respondRecord(ctx, row)
}

// GetSharedRecord 通过分享码获取记录，无需登录
func (c *RecordController) GetSharedRecord(ctx *gin.Context) {
	code := ctx.Param("code")
	if len(code) != shareCodeLength {
		utils.NotFound(ctx, "记录不存在")
		return
	}

	row := c.DB.QueryRow("SELECT "+recordColumns+" FROM dose_records WHERE share_code = ?", code)
	c.respondRecord(ctx, row)
}

func (c *RecordController) respondRecord(ctx *gin.Context, row *sql.Row) {
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.NotFound(ctx, "记录不存在")
		} else {
			c.Logger.Error("query dose record failed", zap.Error(err))
			utils.InternalServerError(ctx, "查询记录失败")
		}
		return
	}
	utils.Success(ctx, record)
}
