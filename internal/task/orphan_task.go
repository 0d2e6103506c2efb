package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"threed_viewer_v1_202601/internal/repository"
	"threed_viewer_v1_202601/internal/service"
)

// ==================== OrphanSweepTask 孤儿资产回收 ====================

// OrphanSweepTask 定时清理公共目录里没有任何记录引用的资产
// 引用来源有两处：模型记录的 zip_file、上传日志里成功落盘的压缩包
type OrphanSweepTask struct {
	store     service.AssetStore
	modelRepo repository.ModelRepository
	logRepo   repository.UploadLogRepository

	spec   string
	maxAge time.Duration // 新写入的文件先豁免一段时间，避免误删进行中的导入
	dryRun bool
	cron   *cron.Cron
}

// NewOrphanSweepTask 创建孤儿资产回收任务
func NewOrphanSweepTask(
	store service.AssetStore,
	modelRepo repository.ModelRepository,
	logRepo repository.UploadLogRepository,
	spec string,
	maxAge time.Duration,
	dryRun bool,
) *OrphanSweepTask {
	if spec == "" {
		spec = "0 0 3 * * *" // 每天凌晨三点
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &OrphanSweepTask{
		store:     store,
		modelRepo: modelRepo,
		logRepo:   logRepo,
		spec:      spec,
		maxAge:    maxAge,
		dryRun:    dryRun,
		cron:      cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时任务
func (t *OrphanSweepTask) Start() {
	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		t.execute(ctx)
	})

	if err != nil {
		log.Fatalf("[OrphanSweepTask] 无法启动定时任务: %v", err)
	}

	t.cron.Start()
	log.Printf("[OrphanSweepTask] 孤儿资产回收已启动 (spec=%s dryRun=%v)", t.spec, t.dryRun)
}

// Stop 停止任务
func (t *OrphanSweepTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[OrphanSweepTask] 已停止")
}

// execute 执行一次回收
func (t *OrphanSweepTask) execute(ctx context.Context) {
	assets, err := t.store.List(ctx)
	if err != nil {
		log.Printf("[OrphanSweepTask] 列举资产失败: %v", err)
		return
	}
	if len(assets) == 0 {
		return
	}

	referenced := make(map[string]bool)

	paths, err := t.modelRepo.ListAssetPaths(ctx)
	if err != nil {
		log.Printf("[OrphanSweepTask] 查询模型引用失败: %v", err)
		return
	}
	for _, p := range paths {
		referenced[service.AssetName(p)] = true
	}

	zipNames, err := t.logRepo.ListFileNames(ctx)
	if err != nil {
		log.Printf("[OrphanSweepTask] 查询上传记录失败: %v", err)
		return
	}
	for _, name := range zipNames {
		referenced[name] = true
	}

	// 示例 CSV 永远保留
	referenced["sample-3d-models.csv"] = true

	cutoff := time.Now().Add(-t.maxAge)
	removed := 0
	for name, modTime := range assets {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if referenced[name] || modTime.After(cutoff) {
			continue
		}

		if t.dryRun {
			log.Printf("[OrphanSweepTask] (dry-run) 孤儿资产: %s", name)
			continue
		}
		if err := t.store.Delete(ctx, service.PublicPrefix+name); err != nil {
			log.Printf("[OrphanSweepTask] 删除失败 %s: %v", name, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("[OrphanSweepTask] 回收了 %d 个孤儿资产", removed)
	}
}
