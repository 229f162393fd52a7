package service

import (
	"math/rand"
	"sync"
	"time"
)

// ErrInvalidNumber is the fixed diagnostic recorded on simulated failures.
const ErrInvalidNumber = "invalid number"

// SenderService simulates message delivery: each call sleeps a randomized
// latency and draws a pass/fail outcome against the configured success rate.
type SenderService struct {
	successRate float64 // 0.0 to 1.0 (e.g., 0.90 = 90% success)
	minDelay    time.Duration
	maxDelay    time.Duration

	mu   sync.Mutex // guards rand; deliveries run concurrently
	rand *rand.Rand
}

// DeliveryResult represents the outcome of one simulated delivery
type DeliveryResult struct {
	Delivered    bool
	ErrorMessage string
	Latency      time.Duration
}

// NewSenderService creates a new sender.
// successRate is clamped to [0.0, 1.0]; delays bound the simulated latency.
func NewSenderService(successRate float64, minDelay, maxDelay time.Duration) *SenderService {
	return &SenderService{
		successRate: clampRate(successRate),
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Deliver simulates sending one message to a phone number.
func (s *SenderService) Deliver(phone string) *DeliveryResult {
	start := time.Now()

	if delay := s.drawDelay(); delay > 0 {
		time.Sleep(delay)
	}

	if s.drawOutcome() {
		return &DeliveryResult{
			Delivered: true,
			Latency:   time.Since(start),
		}
	}

	return &DeliveryResult{
		Delivered:    false,
		ErrorMessage: ErrInvalidNumber,
		Latency:      time.Since(start),
	}
}

// SuccessRate returns the configured success rate
func (s *SenderService) SuccessRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.successRate
}

// SetSuccessRate updates the success rate (for testing)
func (s *SenderService) SetSuccessRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successRate = clampRate(rate)
}

func (s *SenderService) drawOutcome() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64() < s.successRate
}

func (s *SenderService) drawDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxDelay <= s.minDelay {
		return s.minDelay
	}
	return s.minDelay + time.Duration(s.rand.Int63n(int64(s.maxDelay-s.minDelay)))
}

func clampRate(rate float64) float64 {
	if rate < 0.0 {
		return 0.0
	}
	if rate > 1.0 {
		return 1.0
	}
	return rate
}
