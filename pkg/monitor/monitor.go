package monitor

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// HealthStatus 组件健康状态
type HealthStatus struct {
	Component   string    `json:"component"`
	Status      string    `json:"status"` // healthy / degraded / unhealthy / unknown
	LastChecked time.Time `json:"last_checked"`
	Message     string    `json:"message,omitempty"`
}

// Monitor 组件健康注册表
type Monitor struct {
	components map[string]*HealthStatus
	mutex      sync.RWMutex
	alertFunc  func(component, status, message string)
}

// NewMonitor 创建健康注册表，alertFunc 在组件转入非健康状态时回调
func NewMonitor(alertFunc func(component, status, message string)) *Monitor {
	return &Monitor{
		components: make(map[string]*HealthStatus),
		alertFunc:  alertFunc,
	}
}

// RegisterComponent 注册组件
func (m *Monitor) RegisterComponent(component string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.components[component] = &HealthStatus{
		Component:   component,
		Status:      "unknown",
		LastChecked: time.Now(),
	}
}

// UpdateStatus 更新组件状态，状态劣化时触发回调
func (m *Monitor) UpdateStatus(component, status, message string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.components[component]; !exists {
		m.components[component] = &HealthStatus{Component: component}
	}

	oldStatus := m.components[component].Status
	m.components[component].Status = status
	m.components[component].LastChecked = time.Now()
	m.components[component].Message = message

	if oldStatus != status && status != "healthy" && m.alertFunc != nil {
		m.alertFunc(component, status, message)
	}
}

// GetAllStatus 获取所有组件状态
func (m *Monitor) GetAllStatus() []*HealthStatus {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	statuses := make([]*HealthStatus, 0, len(m.components))
	for _, status := range m.components {
		statuses = append(statuses, status)
	}
	return statuses
}

// AllHealthy 是否所有组件健康
func (m *Monitor) AllHealthy() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, status := range m.components {
		if status.Status != "healthy" {
			return false
		}
	}
	return true
}

// CheckHTTPEndpoint 检查HTTP端点健康状态
func (m *Monitor) CheckHTTPEndpoint(component, url string) {
	resp, err := http.Get(url)
	if err != nil {
		m.UpdateStatus(component, "unhealthy", fmt.Sprintf("HTTP请求失败: %v", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.UpdateStatus(component, "degraded", fmt.Sprintf("HTTP状态码非200: %d", resp.StatusCode))
		return
	}

	m.UpdateStatus(component, "healthy", "")
}
