package ml

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// BundleSchemaVersion 模型包结构版本
// 特征布局或序列化结构变化时递增；版本不匹配的旧包会被丢弃并触发重训
const BundleSchemaVersion = 1

var ErrSchemaMismatch = errors.New("模型包结构版本不匹配")

// Bundle 持久化的训练产物：特征流水线 + 分类器 + 训练元数据
// 元数据让「模型是否过期」成为可观测事实，而非仅凭文件是否存在判断
type Bundle struct {
	SchemaVersion int
	TrainedAt     time.Time
	SampleCount   int
	SnapshotHash  string // 训练输入的 sha256 摘要
	Pipeline      Pipeline
	Model         LogisticRegression
}

// Train 拟合特征流水线与分类器，产出可持久化的模型包
func Train(samples []LabeledSample, opts TrainOptions) (*Bundle, error) {
	if len(samples) == 0 {
		return nil, errors.New("训练样本为空")
	}

	raw := make([]Sample, len(samples))
	labels := make([]string, len(samples))
	for i, s := range samples {
		raw[i] = s.Sample
		labels[i] = s.Label
	}

	var p Pipeline
	p.Fit(raw)

	var m LogisticRegression
	if err := m.Fit(p.TransformAll(raw), labels, opts); err != nil {
		return nil, fmt.Errorf("拟合分类器失败: %w", err)
	}

	return &Bundle{
		SchemaVersion: BundleSchemaVersion,
		TrainedAt:     time.Now(),
		SampleCount:   len(samples),
		SnapshotHash:  SnapshotHash(samples),
		Pipeline:      p,
		Model:         m,
	}, nil
}

// Save 以 gob 序列化模型包到磁盘
// 先写临时文件再原子改名，避免进程中断留下半个模型包
func (b *Bundle) Save(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("创建模型包文件失败: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("序列化模型包失败: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}

// LoadBundle 从磁盘加载模型包
// 结构版本不匹配返回 ErrSchemaMismatch，调用方据此丢弃并重训
func LoadBundle(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("解析模型包失败: %w", err)
	}

	if b.SchemaVersion != BundleSchemaVersion {
		return nil, ErrSchemaMismatch
	}
	return &b, nil
}

// SnapshotHash 计算训练输入的规范化 sha256 摘要
func SnapshotHash(samples []LabeledSample) string {
	h := sha256.New()
	for _, s := range samples {
		h.Write([]byte(strconv.FormatFloat(s.Attendance, 'g', -1, 64)))
		h.Write([]byte{'|'})
		h.Write([]byte(strconv.FormatFloat(s.AvgScore, 'g', -1, 64)))
		h.Write([]byte{'|'})
		h.Write([]byte(s.FeeStatus))
		h.Write([]byte{'|'})
		h.Write([]byte(s.Label))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
