package ml

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestTrainAndBundleRoundtrip(t *testing.T) {
	samples := BootstrapSamples()

	bundle, err := Train(samples, DefaultTrainOptions())
	if err != nil {
		t.Fatalf("Train 失败: %v", err)
	}
	if bundle.SchemaVersion != BundleSchemaVersion {
		t.Errorf("期望结构版本 %d，实际 %d", BundleSchemaVersion, bundle.SchemaVersion)
	}
	if bundle.SampleCount != len(samples) {
		t.Errorf("期望样本数 %d，实际 %d", len(samples), bundle.SampleCount)
	}
	if bundle.TrainedAt.IsZero() {
		t.Error("训练时间不应为零值")
	}
	if bundle.SnapshotHash != SnapshotHash(samples) {
		t.Error("快照摘要应与训练输入一致")
	}

	path := filepath.Join(t.TempDir(), "risk_model.gob")
	if err := bundle.Save(path); err != nil {
		t.Fatalf("Save 失败: %v", err)
	}

	loaded, err := LoadBundle(path)
	if err != nil {
		t.Fatalf("LoadBundle 失败: %v", err)
	}

	if !reflect.DeepEqual(loaded.Pipeline.Features, bundle.Pipeline.Features) {
		t.Errorf("特征列顺序未保持: %v != %v", loaded.Pipeline.Features, bundle.Pipeline.Features)
	}
	if !reflect.DeepEqual(loaded.Model.Weights, bundle.Model.Weights) {
		t.Error("权重矩阵未保持")
	}

	// 加载后的模型与原模型对同一输入给出同一判定
	x := loaded.Pipeline.Transform(Sample{65, 40, "Overdue"})
	l1, _, err := loaded.Model.Predict(x)
	if err != nil {
		t.Fatalf("Predict 失败: %v", err)
	}
	l2, _, _ := bundle.Model.Predict(bundle.Pipeline.Transform(Sample{65, 40, "Overdue"}))
	if l1 != l2 {
		t.Errorf("加载前后预测不一致: %s != %s", l2, l1)
	}
}

func TestLoadBundle_SchemaMismatch(t *testing.T) {
	bundle, err := Train(BootstrapSamples(), DefaultTrainOptions())
	if err != nil {
		t.Fatalf("Train 失败: %v", err)
	}
	bundle.SchemaVersion = BundleSchemaVersion + 1

	path := filepath.Join(t.TempDir(), "risk_model.gob")
	if err := bundle.Save(path); err != nil {
		t.Fatalf("Save 失败: %v", err)
	}

	if _, err := LoadBundle(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("期望 ErrSchemaMismatch，实际: %v", err)
	}
}

func TestSnapshotHash_SensitiveToInput(t *testing.T) {
	a := BootstrapSamples()
	b := BootstrapSamples()
	b[0].Attendance = 83

	if SnapshotHash(a) == SnapshotHash(b) {
		t.Error("不同训练输入的快照摘要不应相同")
	}
}

func TestTrain_EmptySamples(t *testing.T) {
	if _, err := Train(nil, DefaultTrainOptions()); err == nil {
		t.Error("空训练集应返回错误")
	}
}
