package album

import (
	"context"
	"sync"
	"time"

	"VinylX/logger"
	"VinylX/metrics"
	"VinylX/model"
)

// HydrationJob 一次后台链接补全任务。ReleaseID 为空时先拉取专辑详情确定发行版。
type HydrationJob struct {
	AlbumID       string
	MusicBrainzID string
	ReleaseID     string
}

// DetailFetcher 读取专辑详情
type DetailFetcher interface {
	FetchDetail(ctx context.Context, id string) *model.AlbumDetail
}

// PoolConfig 后台补全工作池配置
type PoolConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// Pool 有界的后台补全工作池。Enqueue 从不阻塞，队列满时丢弃任务；进程退出前 Close 会处理完队列。
type Pool struct {
	hydrator *Hydrator
	details  DetailFetcher
	timeout  time.Duration

	jobs chan HydrationJob
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool 创建并启动工作池
func NewPool(hydrator *Hydrator, details DetailFetcher, cfg PoolConfig) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	p := &Pool{
		hydrator: hydrator,
		details:  details,
		timeout:  timeout,
		jobs:     make(chan HydrationJob, queueSize),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	logger.Info("[HydrationPool] started",
		logger.Int("workers", workers),
		logger.Int("queueSize", queueSize))
	return p
}

// Enqueue 提交任务，立即返回。返回 false 表示任务被丢弃（队列已满或已关闭）。
func (p *Pool) Enqueue(job HydrationJob) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		metrics.HydrationsTotal.WithLabelValues("dropped").Inc()
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		metrics.HydrationsTotal.WithLabelValues("dropped").Inc()
		logger.Warn("[HydrationPool] queue full, job dropped",
			logger.String("albumId", job.AlbumID),
			logger.String("mbid", job.MusicBrainzID))
		return false
	}
}

// Close 停止接收新任务并等待队列处理完
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	logger.Info("[HydrationPool] stopped")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(id, job)
	}
}

func (p *Pool) run(workerID int, job HydrationJob) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HydrationsTotal.WithLabelValues("panic").Inc()
			logger.Error("[HydrationPool] job panicked",
				logger.Int("worker", workerID),
				logger.String("albumId", job.AlbumID),
				logger.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	releaseID := job.ReleaseID
	if releaseID == "" {
		detail := p.details.FetchDetail(ctx, job.MusicBrainzID)
		if detail == nil {
			metrics.HydrationsTotal.WithLabelValues("no_detail").Inc()
			return
		}
		releaseID = detail.Release.ID
	}

	p.hydrator.Hydrate(ctx, job.AlbumID, releaseID)
}
