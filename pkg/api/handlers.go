package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"GERadar/pkg/collector"
	"GERadar/pkg/database"
	"GERadar/pkg/engine"
	"GERadar/pkg/model"
	"GERadar/pkg/monitor"
	"GERadar/pkg/repository"
)

// Handlers API处理程序
type Handlers struct {
	feed       collector.PriceFeed
	scorer     *engine.RiskScorer
	whaleCache *repository.WhaleCache
	db         *database.Postgres
	monitor    *monitor.Monitor
}

// NewHandlers 创建新的API处理程序
func NewHandlers(
	feed collector.PriceFeed,
	scorer *engine.RiskScorer,
	whaleCache *repository.WhaleCache,
	db *database.Postgres,
	healthMonitor *monitor.Monitor,
) *Handlers {
	return &Handlers{
		feed:       feed,
		scorer:     scorer,
		whaleCache: whaleCache,
		db:         db,
		monitor:    healthMonitor,
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ReadinessCheck 就绪检查处理程序
func (h *Handlers) ReadinessCheck(c *gin.Context) {
	statuses := h.monitor.GetAllStatus()
	if h.monitor.AllHealthy() {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "components": statuses})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": statuses})
}

// GetRisk 按需计算单个物品的风险评分
func (h *Handlers) GetRisk(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "物品ID必须是整数",
		})
		return
	}

	timeframe := model.Timeframe(c.DefaultQuery("timeframe", string(model.Timeframe1h)))
	if !model.ValidTimeframe(timeframe) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "timeframe参数不合法",
		})
		return
	}

	history, err := h.feed.FetchTimeseries(c.Request.Context(), itemID, timeframe)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "获取历史数据失败",
		})
		return
	}

	score := h.scorer.Compute(history, timeframe, nil)
	c.JSON(http.StatusOK, gin.H{
		"item_id":   itemID,
		"timeframe": timeframe,
		"risk":      score,
	})
}

// GetWhales 返回最近一轮大宗扫描结果
func (h *Handlers) GetWhales(c *gin.Context) {
	result := h.whaleCache.Get()
	if result == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "尚无扫描结果",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAlertHistory 查询用户告警历史
func (h *Handlers) GetAlertHistory(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id参数不能为空",
		})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	records, err := h.db.Alert().GetByUserID(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询告警历史失败",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"alerts": records,
		"count":  len(records),
	})
}
