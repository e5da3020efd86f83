/*
 * @module service/session/session
 * @description 估值会话：数据集、用例、按指纹隔离的评分、权重与提交状态机
 * @architecture 领域模型 - 显式会话对象，每个HTTP请求对应一次状态变更
 * @documentReference DESIGN.md
 * @stateFlow 上传数据集 -> 选择用例 -> 评分 -> 确认 -> (权重) -> 计算 -> 保存
 * @rules 新指纹清空全部评分与后续状态；任何评分/权重/用例变更清除当前计算结果
 * @dependencies valuation-service/service/valuation, valuation-service/service/meta
 * @refs service/session/service.go, api/controllers/session_controller.go
 */

package session

import (
	"context"
	"errors"
	"fmt"
	"time"
	"valuation-service/service/dataset"
	"valuation-service/service/meta"
	"valuation-service/service/models"
	"valuation-service/service/valuation"
)

var (
	ErrNotFound           = errors.New("会话不存在")
	ErrNoDataset          = errors.New("尚未上传数据集")
	ErrNoUseCase          = errors.New("尚未选择用例")
	ErrScoresNotConfirmed = errors.New("评分尚未确认")
	ErrNotCalculated      = errors.New("尚未计算估值")
)

// SubmissionState 提交状态
type SubmissionState string

const (
	StateNotCalculated SubmissionState = "not_calculated"
	StatePendingSave   SubmissionState = "pending_save"
	StateSaved         SubmissionState = "saved"
	StateSaveFailed    SubmissionState = "save_failed"
)

// SaveOutcome 一次保存尝试的结果
type SaveOutcome string

const (
	OutcomeInserted  SaveOutcome = "inserted"
	OutcomeDuplicate SaveOutcome = "duplicate"
	OutcomeSkipped   SaveOutcome = "skipped"
	OutcomeFailed    SaveOutcome = "failed"
)

const previewRows = 5

// ValuationStore 估值结果存储，submit_id 冲突时不插入且不报错
type ValuationStore interface {
	Save(ctx context.Context, v *models.Valuation) (bool, error)
}

// DatasetInfo 会话中保留的数据集信息，不保留完整表格
type DatasetInfo struct {
	Name        string               `json:"name"`
	Size        int64                `json:"size"`
	Format      dataset.Format       `json:"format"`
	Fingerprint string               `json:"fingerprint"`
	Columns     []string             `json:"columns"`
	Preview     [][]string           `json:"preview"`
	Quality     models.QualityReport `json:"quality"`
}

// Submission 提交状态机
type Submission struct {
	State        SubmissionState   `json:"state"`
	SubmitID     string            `json:"submit_id,omitempty"`
	LastSavedID  string            `json:"last_saved_id,omitempty"`
	Error        string            `json:"error,omitempty"`
	CalculatedAt *time.Time        `json:"calculated_at,omitempty"`
	Result       *valuation.Result `json:"result,omitempty"`
	Payload      *models.Valuation `json:"payload,omitempty"`
}

// Session 估值会话
type Session struct {
	ID              string                        `json:"id"`
	CreatedAt       time.Time                     `json:"created_at"`
	UpdatedAt       time.Time                     `json:"updated_at"`
	Dataset         *DatasetInfo                  `json:"dataset,omitempty"`
	UseCase         string                        `json:"use_case,omitempty"`
	ScoresConfirmed bool                          `json:"scores_confirmed"`
	ApplyWeights    bool                          `json:"apply_weights"`
	Ratings         map[string]map[string]int     `json:"ratings"` // 指纹|用例 -> 维度 -> 星级
	Weights         map[string]map[string]float64 `json:"weights"` // 指纹 -> 维度 -> 权重
	Submission      Submission                    `json:"submission"`
}

// New 创建空会话
func New(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  now,
		UpdatedAt:  now,
		Ratings:    make(map[string]map[string]int),
		Weights:    make(map[string]map[string]float64),
		Submission: Submission{State: StateNotCalculated},
	}
}

// AttachDataset 绑定解析后的数据集；指纹变化时重置所有依赖状态
func (s *Session) AttachDataset(up *dataset.Upload, report models.QualityReport) {
	changed := s.Dataset == nil || s.Dataset.Fingerprint != up.Fingerprint

	s.Dataset = &DatasetInfo{
		Name:        up.Name,
		Size:        up.Size,
		Format:      up.Format,
		Fingerprint: up.Fingerprint,
		Columns:     append([]string(nil), up.Table.Columns...),
		Preview:     up.Table.Preview(previewRows),
		Quality:     report,
	}

	if changed {
		s.UseCase = ""
		s.ApplyWeights = false
		s.ScoresConfirmed = false
		s.Ratings = make(map[string]map[string]int)
		s.Weights = make(map[string]map[string]float64)
		s.clearCalculation()
	}
}

// SelectUseCase 选择用例，评分作用域随之切换
func (s *Session) SelectUseCase(useCase string) error {
	if s.Dataset == nil {
		return ErrNoDataset
	}
	if err := meta.ValidateUseCase(useCase); err != nil {
		return err
	}
	if s.UseCase != useCase {
		s.UseCase = useCase
		s.invalidate()
	}
	return nil
}

// Rate 为当前作用域的维度评分
func (s *Session) Rate(dim string, stars, minStars int) error {
	if err := s.requireScope(); err != nil {
		return err
	}
	if err := meta.ValidateDimension(dim); err != nil {
		return err
	}
	if err := valuation.ValidateStar(stars, minStars); err != nil {
		return err
	}

	scope := s.scopeKey()
	if s.Ratings[scope] == nil {
		s.Ratings[scope] = make(map[string]int)
	}
	s.Ratings[scope][dim] = stars
	s.invalidate()
	return nil
}

// ResetDimension 将单个维度恢复为未评分
func (s *Session) ResetDimension(dim string) error {
	if err := s.requireScope(); err != nil {
		return err
	}
	if err := meta.ValidateDimension(dim); err != nil {
		return err
	}
	delete(s.Ratings[s.scopeKey()], dim)
	s.invalidate()
	return nil
}

// ResetRatings 清空当前作用域的全部评分
func (s *Session) ResetRatings() error {
	if err := s.requireScope(); err != nil {
		return err
	}
	delete(s.Ratings, s.scopeKey())
	s.invalidate()
	return nil
}

// ConfirmScores 确认评分，之后才能设置权重与计算
func (s *Session) ConfirmScores() error {
	if err := s.requireScope(); err != nil {
		return err
	}
	s.ScoresConfirmed = true
	return nil
}

// SetWeighting 开关权重并更新部分维度的权重，未设置的维度默认 0.5
func (s *Session) SetWeighting(apply bool, weights map[string]float64) error {
	if err := s.requireScope(); err != nil {
		return err
	}
	if !s.ScoresConfirmed {
		return ErrScoresNotConfirmed
	}
	if err := valuation.ValidateWeights(weights); err != nil {
		return err
	}

	s.ApplyWeights = apply
	if apply {
		fp := s.Dataset.Fingerprint
		current := s.Weights[fp]
		if current == nil {
			current = meta.DefaultWeights()
			s.Weights[fp] = current
		}
		for d, w := range weights {
			current[d] = w
		}
	}
	s.clearCalculation()
	return nil
}

// Calculate 聚合当前评分并生成新的提交ID，状态进入待保存
func (s *Session) Calculate(now time.Time) (*valuation.Result, error) {
	if err := s.requireScope(); err != nil {
		return nil, err
	}
	if !s.ScoresConfirmed {
		return nil, ErrScoresNotConfirmed
	}

	stars := s.CurrentRatings()
	weights := s.CurrentWeights()
	result := valuation.Aggregate(stars, weights, s.ApplyWeights)

	submitID := valuation.NewSubmitID()
	payload := valuation.BuildPayload(valuation.PayloadInput{
		SubmitID:     submitID,
		CreatedAt:    now,
		DatasetSig:   s.Dataset.Fingerprint,
		UseCase:      s.UseCase,
		ApplyWeights: s.ApplyWeights,
		Stars:        stars,
		Weights:      weights,
		Result:       result,
	})

	calculatedAt := now.UTC()
	s.Submission = Submission{
		State:        StatePendingSave,
		SubmitID:     submitID,
		LastSavedID:  s.Submission.LastSavedID,
		CalculatedAt: &calculatedAt,
		Result:       &result,
		Payload:      payload,
	}
	return &result, nil
}

// Submit 保存当前计算结果；同一 submit_id 最多保存一次
// 存储失败不作为错误返回，而是记录在 SaveFailed 状态中
func (s *Session) Submit(ctx context.Context, store ValuationStore) (SaveOutcome, error) {
	sub := &s.Submission
	if sub.State == StateNotCalculated || sub.Payload == nil {
		return "", ErrNotCalculated
	}
	if sub.SubmitID == "" || sub.SubmitID == sub.LastSavedID {
		return OutcomeSkipped, nil
	}

	inserted, err := store.Save(ctx, sub.Payload)
	if err != nil {
		sub.State = StateSaveFailed
		sub.Error = err.Error()
		return OutcomeFailed, nil
	}

	sub.State = StateSaved
	sub.Error = ""
	sub.LastSavedID = sub.SubmitID
	if !inserted {
		return OutcomeDuplicate, nil
	}
	return OutcomeInserted, nil
}

// Summary 汇总视图
type Summary struct {
	Dataset           *DatasetInfo           `json:"dataset"`
	UseCase           string                 `json:"use_case"`
	ApplyWeights      bool                   `json:"apply_weights"`
	Rows              []valuation.SummaryRow `json:"rows"`
	FinalScorePercent float64                `json:"final_score_percent"`
	TopDimensions     []string               `json:"top_dimensions"`
	Submission        Submission             `json:"submission"`
}

// Summary 按展示策略生成计算结果汇总
func (s *Session) Summary(policy valuation.DisplayPolicy) (*Summary, error) {
	sub := s.Submission
	if sub.State == StateNotCalculated || sub.Result == nil || sub.Payload == nil {
		return nil, ErrNotCalculated
	}

	return &Summary{
		Dataset:           s.Dataset,
		UseCase:           s.UseCase,
		ApplyWeights:      sub.Result.ApplyWeights,
		Rows:              valuation.BuildSummary(sub.Payload.Stars, sub.Payload.Weights, sub.Result.ApplyWeights),
		FinalScorePercent: sub.Result.FinalScorePercent,
		TopDimensions:     policy.Tags(*sub.Result),
		Submission:        sub,
	}, nil
}

// CurrentRatings 当前作用域评分的副本
func (s *Session) CurrentRatings() map[string]int {
	out := make(map[string]int)
	if s.Dataset == nil || s.UseCase == "" {
		return out
	}
	for d, v := range s.Ratings[s.scopeKey()] {
		out[d] = v
	}
	return out
}

// CurrentWeights 当前数据集权重的副本；未启用权重时为空
func (s *Session) CurrentWeights() map[string]float64 {
	out := make(map[string]float64)
	if s.Dataset == nil || !s.ApplyWeights {
		return out
	}
	for d, v := range s.Weights[s.Dataset.Fingerprint] {
		out[d] = v
	}
	return out
}

func (s *Session) scopeKey() string {
	return fmt.Sprintf("%s|%s", s.Dataset.Fingerprint, s.UseCase)
}

func (s *Session) requireScope() error {
	if s.Dataset == nil {
		return ErrNoDataset
	}
	if s.UseCase == "" {
		return ErrNoUseCase
	}
	return nil
}

// invalidate 评分或用例变更：需要重新确认与计算
func (s *Session) invalidate() {
	s.ScoresConfirmed = false
	s.clearCalculation()
}

// clearCalculation 回到未计算状态，保留最后保存的ID
func (s *Session) clearCalculation() {
	s.Submission = Submission{
		State:       StateNotCalculated,
		LastSavedID: s.Submission.LastSavedID,
	}
}
