package services

import (
	"strings"
	"sync"
	"time"

	"annotation-review-api/models"

	"gorm.io/gorm"
)

// PaymentResult is the outcome of a payment calculation. An unconfigured
// project yields a zero amount with Configured=false rather than an error.
type PaymentResult struct {
	ProjectCode  string  `json:"project_code"`
	Configured   bool    `json:"configured"`
	AudioMinutes float64 `json:"audio_minutes"`
	Segments     int     `json:"segments"`
	Syllables    int     `json:"syllables"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// PaymentService maps per-project work metrics to a monetary total using
// the payment_rates table. Rates change rarely, so they are cached with a
// short TTL the way the status lookup cache works.
type PaymentService struct {
	db  *gorm.DB
	ttl time.Duration

	mu        sync.RWMutex
	rates     []models.PaymentRate
	fetchedAt time.Time
}

// NewPaymentService creates a payment service bound to db.
func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db, ttl: 5 * time.Minute}
}

// ClearCache invalidates the in-memory rate cache.
func (s *PaymentService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = nil
	s.fetchedAt = time.Time{}
}

func (s *PaymentService) loadRates() ([]models.PaymentRate, error) {
	s.mu.RLock()
	if s.rates != nil && time.Since(s.fetchedAt) < s.ttl {
		cached := s.rates
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rates != nil && time.Since(s.fetchedAt) < s.ttl {
		return s.rates, nil
	}

	var rows []models.PaymentRate
	if err := s.db.Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	s.rates = rows
	s.fetchedAt = time.Now()
	return rows, nil
}

// MatchRate picks the rate row for a project identifier: an exact code
// match wins, otherwise the longest configured code contained in the
// identifier. ok is false when nothing matches.
func MatchRate(rates []models.PaymentRate, projectCode string) (*models.PaymentRate, bool) {
	code := strings.TrimSpace(projectCode)
	if code == "" {
		return nil, false
	}
	for i := range rates {
		if rates[i].ProjectCode == code {
			return &rates[i], true
		}
	}
	var best *models.PaymentRate
	for i := range rates {
		if rates[i].ProjectCode == "" {
			continue
		}
		if strings.Contains(code, rates[i].ProjectCode) {
			if best == nil || len(rates[i].ProjectCode) > len(best.ProjectCode) {
				best = &rates[i]
			}
		}
	}
	return best, best != nil
}

// CalculateAmount is the pure payment formula. Absent rates contribute
// zero; a project pays either segments or syllables, never both, which the
// rate table enforces by leaving one of the two rates at zero.
func CalculateAmount(rate *models.PaymentRate, audioMinutes float64, segments, syllables int) float64 {
	if rate == nil {
		return 0
	}
	return audioMinutes*rate.AudioMinuteRate +
		float64(segments)*rate.SegmentRate +
		float64(syllables)*rate.SyllableRate
}

// Calculate resolves the rate for projectCode and applies the formula.
func (s *PaymentService) Calculate(projectCode string, audioMinutes float64, segments, syllables int) (*PaymentResult, error) {
	rates, err := s.loadRates()
	if err != nil {
		return nil, err
	}

	result := &PaymentResult{
		ProjectCode:  projectCode,
		AudioMinutes: audioMinutes,
		Segments:     segments,
		Syllables:    syllables,
	}

	rate, ok := MatchRate(rates, projectCode)
	if !ok {
		return result, nil
	}

	result.Configured = true
	result.Currency = rate.Currency
	result.Amount = CalculateAmount(rate, audioMinutes, segments, syllables)
	return result, nil
}
