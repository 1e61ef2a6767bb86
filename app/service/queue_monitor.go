package service

import (
	"tube-fusion/app/logger"

	"github.com/robfig/cron/v3"
)

// QueueMonitor 定期把各队列的状态汇总写进日志。
// done/failed 列表只增不减，汇总日志同时起到容量增长的提醒作用。
type QueueMonitor struct {
	cron   *cron.Cron
	queues []*IngestQueue
	logger *logger.Logger
}

// NewQueueMonitor 创建队列监控器
func NewQueueMonitor(spec string, queues []*IngestQueue, log *logger.Logger) (*QueueMonitor, error) {
	m := &QueueMonitor{
		cron:   cron.New(),
		queues: queues,
		logger: log,
	}

	if _, err := m.cron.AddFunc(spec, m.report); err != nil {
		return nil, err
	}
	return m, nil
}

// Start 启动定时汇总
func (m *QueueMonitor) Start() {
	m.cron.Start()
	m.logger.Info("队列监控器已启动")
}

// Stop 停止定时汇总，等待进行中的汇总结束
func (m *QueueMonitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("队列监控器已停止")
}

// report 输出一次各队列的状态汇总
func (m *QueueMonitor) report() {
	for _, q := range m.queues {
		snapshot := q.Snapshot()
		processing := "无"
		if snapshot.Processing != nil {
			processing = *snapshot.Processing
		}
		m.logger.Infof("[%s] 队列状态: 等待=%d 处理中=%s 完成=%d 失败=%d",
			q.Name(), len(snapshot.Waiting), processing, len(snapshot.Done), len(snapshot.Failed))
	}
}
