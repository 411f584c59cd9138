package service

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"edu-radar/backend/config"
	"edu-radar/backend/internal/dto"
	"edu-radar/backend/internal/ml"
	"edu-radar/backend/internal/model"
	"edu-radar/backend/internal/repository"
)

var ErrModelUnavailable = errors.New("AI model not loaded. Restart server.")

// RiskScorer 风险评分接口
// 实现持有启动时冻结的模型包，构造后只读，可被多请求并发使用
type RiskScorer interface {
	// ScoreOne 为单个聚合记录打分
	ScoreOne(row *model.StudentAggregate) (*dto.ScoredStudent, error)
	// ScoreAll 批量打分；单条失败仅跳过该条，不拖垮整批
	ScoreAll(rows []model.StudentAggregate) []dto.ScoredStudent
	// Bundle 返回训练元数据（日志与运维可观测用）
	Bundle() *ml.Bundle
}

type riskScorer struct {
	bundle *ml.Bundle
	logger *zap.Logger
}

// LoadOrTrainScorer 加载或训练风险模型，返回不可变的评分器
//
// 生命周期（在 HTTP 服务开始接流量之前执行一次）：
//  1. 磁盘上存在版本匹配的模型包 → 直接加载
//  2. 否则拉取全部学生聚合数据；库为空时退回内置 10 行示例集
//  3. 无真实标签，按固定规则推导 → 拟合流水线与分类器 → 持久化
func LoadOrTrainScorer(
	ctx context.Context,
	cfg *config.ModelConfig,
	repo *repository.Repository,
	logger *zap.Logger,
) (RiskScorer, error) {
	bundle, err := ml.LoadBundle(cfg.BundlePath)
	if err == nil {
		logger.Info("风险模型加载成功",
			zap.Time("trained_at", bundle.TrainedAt),
			zap.Int("sample_count", bundle.SampleCount),
			zap.String("snapshot_hash", bundle.SnapshotHash),
		)
		return &riskScorer{bundle: bundle, logger: logger}, nil
	}

	switch {
	case os.IsNotExist(err):
		logger.Info("未发现模型包，开始训练新模型", zap.String("path", cfg.BundlePath))
	case errors.Is(err, ml.ErrSchemaMismatch):
		logger.Warn("模型包结构版本过旧，丢弃并重训", zap.String("path", cfg.BundlePath))
	default:
		logger.Warn("模型包损坏，丢弃并重训", zap.Error(err))
	}

	samples, err := trainingSamples(ctx, repo)
	if err != nil {
		return nil, err
	}

	bundle, err = ml.Train(samples, ml.DefaultTrainOptions())
	if err != nil {
		return nil, err
	}

	if err := bundle.Save(cfg.BundlePath); err != nil {
		// 持久化失败不阻断启动，下次启动会重训
		logger.Warn("模型包写盘失败", zap.Error(err))
	}

	logger.Info("风险模型训练完成",
		zap.Int("sample_count", bundle.SampleCount),
		zap.Strings("features", bundle.Pipeline.Features),
		zap.String("snapshot_hash", bundle.SnapshotHash),
	)
	return &riskScorer{bundle: bundle, logger: logger}, nil
}

// trainingSamples 组装训练集：库里的聚合数据，空库退回内置示例集
func trainingSamples(ctx context.Context, repo *repository.Repository) ([]ml.LabeledSample, error) {
	rows, err := repo.Student.ListJoined(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return ml.BootstrapSamples(), nil
	}

	raw := make([]ml.Sample, len(rows))
	for i, r := range rows {
		raw[i] = ml.Sample{
			Attendance: r.AttendancePercentage,
			AvgScore:   r.AvgTestScore,
			FeeStatus:  r.FeeStatus,
		}
	}
	return ml.LabelSamples(raw), nil
}

func (s *riskScorer) Bundle() *ml.Bundle { return s.bundle }

func (s *riskScorer) ScoreOne(row *model.StudentAggregate) (*dto.ScoredStudent, error) {
	if s.bundle == nil {
		return nil, ErrModelUnavailable
	}

	x := s.bundle.Pipeline.Transform(ml.Sample{
		Attendance: row.AttendancePercentage,
		AvgScore:   row.AvgTestScore,
		FeeStatus:  row.FeeStatus,
	})
	label, probs, err := s.bundle.Model.Predict(x)
	if err != nil {
		return nil, err
	}

	return &dto.ScoredStudent{
		StudentAggregate: *row,
		RiskLevel:        label,
		HighRiskProb:     s.bundle.Model.ClassProb(probs, ml.RiskHigh),
	}, nil
}

func (s *riskScorer) ScoreAll(rows []model.StudentAggregate) []dto.ScoredStudent {
	scored := make([]dto.ScoredStudent, 0, len(rows))
	for i := range rows {
		one, err := s.ScoreOne(&rows[i])
		if err != nil {
			s.logger.Warn("学生评分失败，跳过该条",
				zap.String("student_id", rows[i].StudentID),
				zap.Error(err),
			)
			continue
		}
		scored = append(scored, *one)
	}
	return scored
}
