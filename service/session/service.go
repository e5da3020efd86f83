/*
 * @module service/session/service
 * @description 会话服务：串行化同一会话的请求，协调数据集解析、评分、计算、保存与事件通知
 * @architecture 分层架构 - 业务服务层
 * @documentReference DESIGN.md
 * @stateFlow 加锁 -> 读取会话 -> 执行变更 -> (保存/通知) -> 写回 -> 解锁
 * @rules 解析失败时会话保持不变；保存失败不影响计算结果返回；通知失败只记录日志
 * @dependencies valuation-service/service/dataset, valuation-service/service/data_quality, github.com/google/uuid
 * @refs api/controllers/session_controller.go, service/init.go
 */

package session

import (
	"context"
	"log/slog"
	"time"
	"valuation-service/service/data_quality"
	"valuation-service/service/dataset"
	"valuation-service/service/distributed_lock"
	"valuation-service/service/models"
	"valuation-service/service/monitoring"
	"valuation-service/service/valuation"

	"github.com/google/uuid"
)

// Publisher 估值已保存事件发布器
type Publisher interface {
	Publish(ctx context.Context, v *models.Valuation) error
	Name() string
}

// Options 会话服务参数
type Options struct {
	MinStars int
	Policy   valuation.DisplayPolicy
	Now      func() time.Time
}

// Service 会话服务
type Service struct {
	store      Store
	locker     distributed_lock.SessionLocker
	valuations ValuationStore
	publisher  Publisher
	metrics    *monitoring.Metrics
	opts       Options
}

// CalculationView 计算/提交接口的返回
type CalculationView struct {
	SubmitID          string           `json:"submit_id"`
	State             SubmissionState  `json:"state"`
	Outcome           SaveOutcome      `json:"outcome"`
	FinalScorePercent float64          `json:"final_score_percent"`
	TopDimensions     []string         `json:"top_dimensions"`
	Result            valuation.Result `json:"result"`
	SaveError         string           `json:"save_error,omitempty"`
}

// NewService 创建会话服务；publisher 与 metrics 可为 nil
func NewService(store Store, locker distributed_lock.SessionLocker, valuations ValuationStore, publisher Publisher, metrics *monitoring.Metrics, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if locker == nil {
		locker = distributed_lock.NewLocalLock()
	}
	return &Service{
		store:      store,
		locker:     locker,
		valuations: valuations,
		publisher:  publisher,
		metrics:    metrics,
		opts:       opts,
	}
}

// Policy 当前展示策略
func (s *Service) Policy() valuation.DisplayPolicy {
	return s.opts.Policy
}

// Create 新建会话
func (s *Service) Create(ctx context.Context) (*Session, error) {
	sess := New(uuid.NewString(), s.opts.Now())
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	slog.Info("创建估值会话", "session_id", sess.ID)
	return sess, nil
}

// Get 读取会话
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// Delete 删除会话
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	return s.store.Delete(ctx, id)
}

// UploadDataset 解析上传文件并绑定到会话；解析失败时会话不变
func (s *Service) UploadDataset(ctx context.Context, id, name string, raw []byte) (*Session, error) {
	up, err := dataset.Load(name, raw)
	if err != nil {
		format, _ := dataset.DetectFormat(name)
		s.metrics.ObserveUpload(string(format), 0, err)
		return nil, err
	}
	report := data_quality.NewDatasetQualityValuator(up.Table).Score()
	s.metrics.ObserveUpload(string(up.Format), report.Rows, nil)

	return s.update(ctx, id, func(sess *Session) error {
		previous := ""
		if sess.Dataset != nil {
			previous = sess.Dataset.Fingerprint
		}
		sess.AttachDataset(up, report)
		slog.Info("会话绑定数据集",
			"session_id", id,
			"dataset", up.Name,
			"fingerprint", up.Fingerprint,
			"reset", previous != up.Fingerprint,
			"rows", report.Rows,
			"cols", report.Cols)
		return nil
	})
}

// SelectUseCase 选择用例
func (s *Service) SelectUseCase(ctx context.Context, id, useCase string) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		return sess.SelectUseCase(useCase)
	})
}

// Rate 维度评分
func (s *Service) Rate(ctx context.Context, id, dim string, stars int) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		return sess.Rate(dim, stars, s.opts.MinStars)
	})
}

// ResetDimension 重置单个维度
func (s *Service) ResetDimension(ctx context.Context, id, dim string) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		return sess.ResetDimension(dim)
	})
}

// ResetRatings 重置全部评分
func (s *Service) ResetRatings(ctx context.Context, id string) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		return sess.ResetRatings()
	})
}

// ConfirmScores 确认评分
func (s *Service) ConfirmScores(ctx context.Context, id string) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		return sess.ConfirmScores()
	})
}

// SetWeighting 设置权重
func (s *Service) SetWeighting(ctx context.Context, id string, apply bool, weights map[string]float64) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		return sess.SetWeighting(apply, weights)
	})
}

// Calculate 计算估值并尝试保存
func (s *Service) Calculate(ctx context.Context, id string) (*CalculationView, error) {
	var view *CalculationView
	_, err := s.update(ctx, id, func(sess *Session) error {
		result, err := sess.Calculate(s.opts.Now())
		if err != nil {
			return err
		}
		s.metrics.ObserveCalculation(result.ApplyWeights, result.FinalScorePercent)
		slog.Info("估值计算完成",
			"session_id", id,
			"submit_id", sess.Submission.SubmitID,
			"apply_weights", result.ApplyWeights,
			"final_score_percent", result.FinalScorePercent)

		view = s.submit(ctx, sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Submit 重试保存当前计算结果
func (s *Service) Submit(ctx context.Context, id string) (*CalculationView, error) {
	var view *CalculationView
	_, err := s.update(ctx, id, func(sess *Session) error {
		if sess.Submission.State == StateNotCalculated {
			return ErrNotCalculated
		}
		view = s.submit(ctx, sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Summary 计算结果汇总
func (s *Service) Summary(ctx context.Context, id string) (*Summary, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Summary(s.opts.Policy)
}

// submit 执行受保护的保存并在首次插入后发布事件
func (s *Service) submit(ctx context.Context, sess *Session) *CalculationView {
	outcome, err := sess.Submit(ctx, s.valuations)
	if err != nil {
		// 调用方已确认处于已计算状态
		slog.Error("提交状态异常", "session_id", sess.ID, "error", err)
	}

	sub := sess.Submission
	switch outcome {
	case OutcomeInserted:
		s.metrics.ObserveSave(monitoring.SaveInserted)
		s.publish(ctx, sub.Payload)
	case OutcomeDuplicate:
		s.metrics.ObserveSave(monitoring.SaveDuplicate)
	case OutcomeSkipped:
		s.metrics.ObserveSave(monitoring.SaveSkipped)
	case OutcomeFailed:
		s.metrics.ObserveSave(monitoring.SaveFailed)
		slog.Warn("估值结果保存失败", "session_id", sess.ID, "submit_id", sub.SubmitID, "error", sub.Error)
	}

	result := *sub.Result
	return &CalculationView{
		SubmitID:          sub.SubmitID,
		State:             sub.State,
		Outcome:           outcome,
		FinalScorePercent: result.FinalScorePercent,
		TopDimensions:     s.opts.Policy.Tags(result),
		Result:            result,
		SaveError:         sub.Error,
	}
}

func (s *Service) publish(ctx context.Context, v *models.Valuation) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, v); err != nil {
		s.metrics.ObservePublishFailure(s.publisher.Name())
		slog.Warn("估值事件发布失败", "submit_id", v.SubmitID, "publisher", s.publisher.Name(), "error", err)
	}
}

// update 在会话锁内读取、变更并写回会话；变更失败时不写回
func (s *Service) update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}

	sess.UpdatedAt = s.opts.Now()
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}
