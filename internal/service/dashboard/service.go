package dashboard

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/internal/repository"
)

// Stats are aggregates over the whole database and every admin page load asks
// for them, so results are cached for a short TTL. Slightly stale numbers on
// the landing page are acceptable.
const statsTTL = 30 * time.Second

const upcomingLimit = 10

type Overview struct {
	Stats    *model.DashboardStats `json:"stats"`
	Upcoming []*model.Appointment  `json:"upcoming_appointments"`
}

type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	dashboard repository.DashboardRepository
	cache     *gocache.Cache
	now       func() time.Time
}

func NewService(dashboard repository.DashboardRepository) Service {
	return &service{
		dashboard: dashboard,
		cache:     gocache.New(statsTTL, time.Minute),
		now:       time.Now,
	}
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	if cached, found := s.cache.Get("overview"); found {
		return cached.(*Overview), nil
	}

	now := s.now()
	stats, err := s.dashboard.Stats(ctx, now)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.dashboard.UpcomingAppointments(ctx, now, upcomingLimit)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		Stats:    stats,
		Upcoming: upcoming,
	}
	s.cache.Set("overview", overview, gocache.DefaultExpiration)
	return overview, nil
}
