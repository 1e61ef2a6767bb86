package service

import (
	"context"
	"fmt"
	"sync"

	"tube-fusion/app/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobFunc 队列任务体。返回值里的 followUps 是任务执行中发现的
// 依赖标识（例如视频任务发现未收录的频道），由队列转发给依赖队列，
// 任务体本身不直接接触其他队列。
type JobFunc func(ctx context.Context, id string) (followUps []string, err error)

// FailedJob 失败任务记录
type FailedJob struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// QueueSnapshot 队列状态的原子快照，四个字段在同一个临界区内读取
type QueueSnapshot struct {
	Waiting    []string    `json:"waiting"`
	Processing *string     `json:"processing"`
	Done       []string    `json:"done"`
	Failed     []FailedJob `json:"failed"`
}

// queuedJob 排队中的任务
type queuedJob struct {
	jobID string // 日志关联用
	id    string // 频道 handle 或视频 ID
}

// IngestQueue 单消费者抓取队列：无界 FIFO 加一个串行出队的 worker。
// 同一队列内任意时刻至多一个任务处于 processing 状态。
// 重复入队的标识可能被执行两次，这是已接受的限制。
// done/failed 列表在进程生命周期内只增不减，不做淘汰。
type IngestQueue struct {
	name   string
	logger *logger.Logger
	job    JobFunc
	follow *IngestQueue // 依赖队列，可为 nil

	mu         sync.Mutex
	waiting    []queuedJob
	processing *string
	done       []string
	failed     []FailedJob

	wake    chan struct{}
	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewIngestQueue 创建抓取队列。follow 指定依赖标识的转发目标。
func NewIngestQueue(name string, job JobFunc, follow *IngestQueue, log *logger.Logger) *IngestQueue {
	return &IngestQueue{
		name:   name,
		logger: log,
		job:    job,
		follow: follow,
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
	}
}

// Name 队列名称
func (q *IngestQueue) Name() string {
	return q.name
}

// Enqueue 把标识追加到队尾，永不阻塞，立即返回任务关联 ID
func (q *IngestQueue) Enqueue(id string) string {
	jobID := uuid.NewString()

	q.mu.Lock()
	q.waiting = append(q.waiting, queuedJob{jobID: jobID, id: id})
	q.mu.Unlock()

	// 唤醒 worker；信号丢失无妨，worker 取任务前总会先检查队列
	select {
	case q.wake <- struct{}{}:
	default:
	}

	q.logger.Infof("[%s] 任务入队: id=%s job=%s", q.name, id, jobID)
	return jobID
}

// Start 启动 worker
func (q *IngestQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}
	q.running = true

	q.wg.Add(1)
	go q.worker()

	q.logger.Infof("[%s] 队列 worker 已启动", q.name)
}

// Stop 协作式停止 worker：正在执行的任务会先完成，等待中的任务被丢弃
func (q *IngestQueue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.mu.Unlock()

	close(q.stopCh)
	q.wg.Wait()

	q.logger.Infof("[%s] 队列 worker 已停止", q.name)
}

// Snapshot 返回队列状态的时点拷贝
func (q *IngestQueue) Snapshot() QueueSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := QueueSnapshot{
		Waiting: make([]string, len(q.waiting)),
		Done:    make([]string, len(q.done)),
		Failed:  make([]FailedJob, len(q.failed)),
	}
	for i, job := range q.waiting {
		snapshot.Waiting[i] = job.id
	}
	copy(snapshot.Done, q.done)
	copy(snapshot.Failed, q.failed)
	if q.processing != nil {
		id := *q.processing
		snapshot.Processing = &id
	}
	return snapshot
}

// worker 串行消费队列，队列为空时挂起等待唤醒
func (q *IngestQueue) worker() {
	defer q.wg.Done()

	for {
		job, ok := q.next()
		if !ok {
			return
		}

		followUps, err := q.run(job)
		q.finish(job, followUps, err)
	}
}

// next 弹出队头并在同一个临界区内标记 processing，
// 保证快照里不会出现一个标识既不在 waiting 也不在 processing 的间隙。
// 队列为空时阻塞，收到停止信号返回 false。
func (q *IngestQueue) next() (queuedJob, bool) {
	for {
		// 两个任务之间也要观察停止信号，不能只在队列为空时观察
		select {
		case <-q.stopCh:
			return queuedJob{}, false
		default:
		}

		q.mu.Lock()
		if len(q.waiting) > 0 {
			job := q.waiting[0]
			q.waiting = q.waiting[1:]
			q.processing = &job.id
			q.mu.Unlock()
			return job, true
		}
		q.mu.Unlock()

		select {
		case <-q.stopCh:
			return queuedJob{}, false
		case <-q.wake:
		}
	}
}

// run 执行任务体并拦截 panic，单个任务的异常不能击穿 worker
func (q *IngestQueue) run(job queuedJob) (followUps []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("任务执行异常: %v", r)
		}
	}()

	q.logger.Infof("[%s] 开始处理: id=%s job=%s", q.name, job.id, job.jobID)
	return q.job(context.Background(), job.id)
}

// finish 记录任务结果并转发依赖标识
func (q *IngestQueue) finish(job queuedJob, followUps []string, err error) {
	q.mu.Lock()
	q.processing = nil
	if err != nil {
		q.failed = append(q.failed, FailedJob{ID: job.id, Error: err.Error()})
	} else {
		q.done = append(q.done, job.id)
	}
	q.mu.Unlock()

	if err != nil {
		q.logger.WithError(err).Error("任务失败",
			zap.String("queue", q.name), zap.String("id", job.id), zap.String("job", job.jobID))
	} else {
		q.logger.Infof("[%s] 任务完成: id=%s job=%s", q.name, job.id, job.jobID)
	}

	// 依赖标识追加到目标队列尾部，不插队也不阻塞当前任务的收尾
	if q.follow != nil {
		for _, dep := range followUps {
			q.follow.Enqueue(dep)
		}
	}
}
