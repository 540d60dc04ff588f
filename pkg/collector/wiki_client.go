package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"GERadar/pkg/config"
	"GERadar/pkg/model"
)

// WikiClient GE行情API客户端
type WikiClient struct {
	BaseURL string
	Client  *http.Client
	rotator *IdentityRotator
}

// latestResponse /latest 响应结构，物品ID是字符串键
type latestResponse struct {
	Data map[string]model.LatestPrice `json:"data"`
}

// volumesResponse /volumes 响应结构
type volumesResponse struct {
	Timestamp int64              `json:"timestamp"`
	Data      map[string]float64 `json:"data"`
}

// timeseriesResponse /timeseries 响应结构
type timeseriesResponse struct {
	Data []model.PriceBar `json:"data"`
}

// NewWikiClient 创建行情客户端
func NewWikiClient(cfg *config.Config) *WikiClient {
	src := cfg.DataSources.WikiPrices
	return &WikiClient{
		BaseURL: src.BaseURL,
		Client: &http.Client{
			Timeout: src.Timeout,
		},
		rotator: NewIdentityRotator(src.Identities, src.RotationInterval),
	}
}

// get 执行GET请求并解码JSON响应
func (c *WikiClient) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+endpoint, nil)
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	identity := c.rotator.Current()
	req.Header.Set("User-Agent", identity.UserAgent)
	if identity.Contact != "" {
		req.Header.Set("From", identity.Contact)
	}
	if identity.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+identity.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("执行HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API返回非200状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应体失败: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}

// FetchMapping 获取物品目录元数据
func (c *WikiClient) FetchMapping(ctx context.Context) ([]model.ItemMeta, error) {
	var items []model.ItemMeta
	if err := c.get(ctx, "mapping", &items); err != nil {
		return nil, fmt.Errorf("获取物品目录失败: %w", err)
	}
	return items, nil
}

// FetchLatest 获取全部物品最新成交价
func (c *WikiClient) FetchLatest(ctx context.Context) (map[int]model.LatestPrice, error) {
	var resp latestResponse
	if err := c.get(ctx, "latest", &resp); err != nil {
		return nil, fmt.Errorf("获取最新行情失败: %w", err)
	}

	result := make(map[int]model.LatestPrice, len(resp.Data))
	for key, price := range resp.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue // 跳过异常键
		}
		result[id] = price
	}
	return result, nil
}

// FetchVolumes 获取全部物品24小时成交量
func (c *WikiClient) FetchVolumes(ctx context.Context) (map[int]float64, error) {
	var resp volumesResponse
	if err := c.get(ctx, "volumes", &resp); err != nil {
		return nil, fmt.Errorf("获取成交量数据失败: %w", err)
	}

	result := make(map[int]float64, len(resp.Data))
	for key, vol := range resp.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		result[id] = vol
	}
	return result, nil
}

// FetchTimeseries 获取单个物品指定粒度的K线历史
func (c *WikiClient) FetchTimeseries(ctx context.Context, itemID int, timestep model.Timeframe) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("timeseries?timestep=%s&id=%d", timestep, itemID)
	var resp timeseriesResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("获取物品 %d 历史数据失败: %w", itemID, err)
	}
	return resp.Data, nil
}

// 编译期断言：WikiClient 实现 PriceFeed
var _ PriceFeed = (*WikiClient)(nil)
