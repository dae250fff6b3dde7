package service

import (
	"sync"
	"sync/atomic"
)

type HealthService struct {
	live  atomic.Bool
	ready atomic.Bool

	mu     sync.RWMutex
	reason string
}

func NewHealthService() *HealthService {
	s := &HealthService{reason: "starting"}
	s.live.Store(true)
	s.ready.Store(false) // 憑證檢查成功後再打開
	return s
}

func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
	if v {
		s.SetReason("")
	}
}

// SetNotReady 記錄最後一次檢查失敗的原因
func (s *HealthService) SetNotReady(reason string) {
	s.ready.Store(false)
	s.SetReason(reason)
}

func (s *HealthService) SetReason(reason string) {
	s.mu.Lock()
	s.reason = reason
	s.mu.Unlock()
}

func (s *HealthService) Reason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

func (s *HealthService) IsReady() bool {
	return s.ready.Load()
}
