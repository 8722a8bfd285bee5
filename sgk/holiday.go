package sgk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// HolidayOracle answers whether a date is a Turkish public holiday.
// Tests inject a deterministic oracle; production uses the shared HolidayService.
type HolidayOracle interface {
	IsHoliday(ctx context.Context, date time.Time) bool
}

const defaultHolidayApiUrl = "https://date.nager.at/api/v3/PublicHolidays"

type HolidayService struct {
	apiUrl string
	client *http.Client

	mu    sync.RWMutex
	years map[int][]time.Time
	group singleflight.Group
}

var (
	holidayOnce    sync.Once
	holidayService *HolidayService
)

// DefaultHolidayOracle returns the process-wide holiday cache.
// The cache has no TTL; it survives until process exit.
func DefaultHolidayOracle() HolidayOracle {
	holidayOnce.Do(func() {
		holidayService = NewHolidayService(os.Getenv("HOLIDAY_API_URL"))
	})
	return holidayService
}

func NewHolidayService(apiUrl string) *HolidayService {
	if strings.TrimSpace(apiUrl) == "" {
		apiUrl = defaultHolidayApiUrl
	}
	return &HolidayService{
		apiUrl: strings.TrimRight(apiUrl, "/"),
		client: &http.Client{Timeout: time.Second},
		years:  map[int][]time.Time{},
	}
}

func (s *HolidayService) IsHoliday(ctx context.Context, date time.Time) bool {
	year := date.Year()

	s.mu.RLock()
	days, ok := s.years[year]
	s.mu.RUnlock()

	if !ok {
		// Collapse concurrent misses for the same year into one fetch.
		v, _, _ := s.group.Do(strconv.Itoa(year), func() (interface{}, error) {
			fetched := s.fetchYear(ctx, year)
			s.mu.Lock()
			if existing, present := s.years[year]; present {
				fetched = existing
			} else {
				s.years[year] = fetched
			}
			s.mu.Unlock()
			return fetched, nil
		})
		days = v.([]time.Time)
	}

	for _, d := range days {
		if d.Year() == date.Year() && d.Month() == date.Month() && d.Day() == date.Day() {
			return true
		}
	}
	return false
}

type publicHoliday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// fetchYear loads the TR holiday calendar for a year. Fail-open: any error
// caches an empty list so the holiday check answers false.
func (s *HolidayService) fetchYear(ctx context.Context, year int) []time.Time {
	url := fmt.Sprintf("%s/%d/TR", s.apiUrl, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var payload []publicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}

	days := make([]time.Time, 0, len(payload))
	for _, h := range payload {
		d, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return days
}
