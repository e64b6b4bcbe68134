package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/mlazarev/tracknest/internal/config"
	"github.com/mlazarev/tracknest/pkg/logger"
)

const TaskTypeActivity = "activity:record"

// ActivityEvent describes one write operation performed through the API.
type ActivityEvent struct {
	RequestID string `json:"request_id"`
	UserID    *uint  `json:"user_id,omitempty"`
	Module    string `json:"module"`
	Action    string `json:"action"`
	Message   string `json:"message"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	Status    int    `json:"status"`
}

// EventQueue decouples activity recording from the request path.
type EventQueue interface {
	// Enqueue hands an event over for recording
	Enqueue(event *ActivityEvent) error
	// IsAsync returns true if events are processed out of process
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalEventQueue EventQueue
	eventQueueOnce   sync.Once
)

// InitEventQueue initializes the global queue: Redis-backed when Redis
// is enabled and reachable, in-process sync mode otherwise.
func InitEventQueue(cfg *config.Config) EventQueue {
	eventQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncEventQueue(&cfg.Redis)
			if err != nil {
				logger.Warnf("[EventQueue] Redis unavailable, falling back to sync mode: %v", err)
				globalEventQueue = NewSyncEventQueue()
			} else {
				logger.Infof("[EventQueue] async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalEventQueue = queue
			}
		} else {
			logger.Infof("[EventQueue] sync queue initialized (Redis disabled)")
			globalEventQueue = NewSyncEventQueue()
		}
	})
	return globalEventQueue
}

// GetEventQueue returns the global queue instance.
func GetEventQueue() EventQueue {
	return globalEventQueue
}

// AsyncEventQueue implements EventQueue using asynq (Redis-based).
type AsyncEventQueue struct {
	client *asynq.Client
}

func NewAsyncEventQueue(cfg *config.RedisConfig) (*AsyncEventQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection before committing to async mode.
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncEventQueue{client: client}, nil
}

func (q *AsyncEventQueue) Enqueue(event *ActivityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeActivity, payload)
	_, err = q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	return err
}

func (q *AsyncEventQueue) IsAsync() bool {
	return true
}

func (q *AsyncEventQueue) Close() error {
	return q.client.Close()
}

// SyncEventQueue records events in-process when Redis is disabled.
type SyncEventQueue struct {
	processor func(context.Context, *ActivityEvent) error
}

func NewSyncEventQueue() *SyncEventQueue {
	return &SyncEventQueue{}
}

// SetProcessor sets the function that records events.
func (q *SyncEventQueue) SetProcessor(processor func(context.Context, *ActivityEvent) error) {
	q.processor = processor
}

// Enqueue records the event in a goroutine so the response is not
// blocked on the write.
func (q *SyncEventQueue) Enqueue(event *ActivityEvent) error {
	if q.processor == nil {
		logger.Warnf("[EventQueue] no processor set, event dropped")
		return nil
	}

	go func() {
		if err := q.processor(context.Background(), event); err != nil {
			logger.Warnf("[EventQueue] recording failed: %v", err)
		}
	}()
	return nil
}

func (q *SyncEventQueue) IsAsync() bool {
	return false
}

func (q *SyncEventQueue) Close() error {
	return nil
}
