package distributed_lock

import (
	"context"
	"fmt"
	"sync"
)

// SessionLocker 按会话ID串行化请求
type SessionLocker interface {
	// Lock 阻塞直到获得 key 对应的锁，返回释放函数
	Lock(ctx context.Context, key string) (func(), error)
}

// LocalLock 进程内按键互斥锁，单实例部署使用
type LocalLock struct {
	mu    sync.Mutex
	locks map[string]*keyedMutex
}

type keyedMutex struct {
	ch   chan struct{}
	refs int
}

// NewLocalLock 创建进程内会话锁
func NewLocalLock() *LocalLock {
	return &LocalLock{locks: make(map[string]*keyedMutex)}
}

// Lock 获取 key 对应的锁
func (l *LocalLock) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	km, ok := l.locks[key]
	if !ok {
		km = &keyedMutex{ch: make(chan struct{}, 1)}
		l.locks[key] = km
	}
	km.refs++
	l.mu.Unlock()

	select {
	case km.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, km)
		return nil, fmt.Errorf("等待会话锁超时 %s: %w", key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-km.ch
			l.release(key, km)
		})
	}, nil
}

// release 引用归零时回收条目
func (l *LocalLock) release(key string, km *keyedMutex) {
	l.mu.Lock()
	defer l.mu.Unlock()
	km.refs--
	if km.refs == 0 {
		delete(l.locks, key)
	}
}

// Len 当前持有或等待中的键数量
func (l *LocalLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
