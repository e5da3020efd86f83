package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StarMap 维度 -> 星级，以 JSONB 存储
type StarMap map[string]int

// WeightMap 维度 -> 权重，以 JSONB 存储
type WeightMap map[string]float64

// scanJSON 将数据库返回的 []byte / string 反序列化到目标
func scanJSON(value interface{}, dest interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("类型断言失败: 不是 []byte 或 string")
	}
	return json.Unmarshal(bytes, dest)
}

// StarMap 的 Scanner 接口实现
func (s *StarMap) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	return scanJSON(value, s)
}

// StarMap 的 Valuer 接口实现
func (s StarMap) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// WeightMap 的 Scanner 接口实现
func (w *WeightMap) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	return scanJSON(value, w)
}

// WeightMap 的 Valuer 接口实现
func (w WeightMap) Value() (driver.Value, error) {
	if w == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(w)
}
