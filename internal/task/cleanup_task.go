package task

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// ==================== TempSweepTask 临时目录清扫 ====================

// TempSweepTask 定时清理解压用的临时目录
// 正常流程里每次导入结束都会删掉自己的临时目录，
// 这里兜底处理进程中途退出留下的残骸
type TempSweepTask struct {
	tempRoot string
	maxAge   time.Duration
	spec     string
	cron     *cron.Cron
}

// NewTempSweepTask 创建临时目录清扫任务
func NewTempSweepTask(tempRoot, spec string, maxAge time.Duration) *TempSweepTask {
	if spec == "" {
		spec = "0 0 * * * *" // 每小时
	}
	if maxAge <= 0 {
		maxAge = 6 * time.Hour
	}
	return &TempSweepTask{
		tempRoot: tempRoot,
		maxAge:   maxAge,
		spec:     spec,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时任务
func (t *TempSweepTask) Start() {
	_, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.execute(ctx)
	})

	if err != nil {
		log.Fatalf("[TempSweepTask] 无法启动定时任务: %v", err)
	}

	t.cron.Start()
	log.Printf("[TempSweepTask] 临时目录清扫已启动 (spec=%s)", t.spec)
}

// Stop 停止任务
func (t *TempSweepTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[TempSweepTask] 已停止")
}

// execute 执行一次清扫
func (t *TempSweepTask) execute(ctx context.Context) {
	entries, err := os.ReadDir(t.tempRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[TempSweepTask] 读取临时目录失败: %v", err)
		}
		return
	}

	cutoff := time.Now().Add(-t.maxAge)
	removed := 0
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		p := filepath.Join(t.tempRoot, entry.Name())
		if err := os.RemoveAll(p); err != nil {
			log.Printf("[TempSweepTask] 删除失败 %s: %v", p, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("[TempSweepTask] 清理了 %d 个过期临时目录", removed)
	}
}
