package task

import (
	"log"
	"time"

	"threed_viewer_v1_202601/internal/config"
	"threed_viewer_v1_202601/internal/repository"
	"threed_viewer_v1_202601/internal/service"
)

// ==================== TaskManager 维护任务管理器 ====================

// TaskManager 统一管理后台维护任务
// 管理范围：临时目录清扫、孤儿资产回收
type TaskManager struct {
	tempTask   *TempSweepTask
	orphanTask *OrphanSweepTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Store     service.AssetStore
	ModelRepo repository.ModelRepository
	LogRepo   repository.UploadLogRepository
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, storage *config.StorageConfig, cfg *config.TasksConfig) *TaskManager {
	tm := &TaskManager{}

	if !cfg.Enabled {
		return tm
	}

	tm.tempTask = NewTempSweepTask(
		storage.TempDir,
		cfg.TempSweepSpec,
		time.Duration(cfg.TempMaxAgeHours)*time.Hour,
	)

	if deps.Store != nil {
		tm.orphanTask = NewOrphanSweepTask(
			deps.Store,
			deps.ModelRepo,
			deps.LogRepo,
			cfg.OrphanSweepSpec,
			time.Duration(cfg.AssetMaxAgeHours)*time.Hour,
			cfg.OrphanSweepDry,
		)
	}

	return tm
}

// Start 启动所有任务
func (tm *TaskManager) Start() {
	log.Println("[TaskManager] 正在启动维护任务...")

	if tm.tempTask != nil {
		tm.tempTask.Start()
	}
	if tm.orphanTask != nil {
		tm.orphanTask.Start()
	}

	log.Println("[TaskManager] 维护任务已全部启动")
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	log.Println("[TaskManager] 正在停止维护任务...")

	if tm.tempTask != nil {
		tm.tempTask.Stop()
	}
	if tm.orphanTask != nil {
		tm.orphanTask.Stop()
	}

	log.Println("[TaskManager] 维护任务已全部停止")
}
