package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/repository"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

// Scoring weights for ranking assignment candidates.
const (
	scoreSpecializationMatch = 50
	scoreNoActiveTickets     = 30
	scoreLightWorkload       = 20
	scoreModerateWorkload    = 10
	scoreHeavyWorkload       = -10
	scoreHighlyExperienced   = 15
	scoreExperienced         = 10
	scoreSomeExperience      = 5
	scoreJitterMax           = 5
)

// DefaultRecommendationLimit candidates are returned when none is requested.
const DefaultRecommendationLimit = 5

// MaxRecommendationLimit caps a single request.
const MaxRecommendationLimit = 50

// RandSource supplies the tie-break jitter. Production seeds from the clock;
// tests inject a fixed source for reproducible scores.
type RandSource interface {
	Intn(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Intn(n)
}

// NewTimeSeededRand returns a concurrency-safe RandSource seeded from the clock.
func NewTimeSeededRand() RandSource {
	return &lockedRand{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// RecommendationService ranks employees as candidates for a ticket.
type RecommendationService struct {
	tickets    repository.TicketRepository
	categories repository.CategoryRepository
	workloads  repository.WorkloadRepository
	rand       RandSource
}

// RecommendationDependencies bundles collaborators.
type RecommendationDependencies struct {
	TicketRepo   repository.TicketRepository
	CategoryRepo repository.CategoryRepository
	WorkloadRepo repository.WorkloadRepository
	Rand         RandSource
}

// NewRecommendationService creates the service.
func NewRecommendationService(deps RecommendationDependencies) *RecommendationService {
	rnd := deps.Rand
	if rnd == nil {
		rnd = NewTimeSeededRand()
	}
	return &RecommendationService{
		tickets:    deps.TicketRepo,
		categories: deps.CategoryRepo,
		workloads:  deps.WorkloadRepo,
		rand:       rnd,
	}
}

// RecommendationReport carries the ranked candidate list for one ticket.
type RecommendationReport struct {
	TicketID        string
	TicketTitle     string
	Category        string
	Recommendations []domain.Recommendation
}

// RecommendEmployees scores every active employee against the ticket and
// returns the top candidates. Cross-tenant lookups surface as not-found.
func (s *RecommendationService) RecommendEmployees(ctx context.Context, ownerID, ticketID string, limit int) (*RecommendationReport, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	if limit > MaxRecommendationLimit {
		limit = MaxRecommendationLimit
	}

	ticket, err := s.tickets.GetByID(ctx, ownerID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	categoryName := ""
	if ticket.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, ownerID, *ticket.CategoryID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		if category != nil {
			categoryName = category.Name
		}
	}

	snapshots, err := s.workloads.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	scored := s.scoreCandidates(snapshots, categoryName)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	return &RecommendationReport{
		TicketID:        ticket.ID,
		TicketTitle:     ticket.Title,
		Category:        categoryName,
		Recommendations: scored,
	}, nil
}

// scoreCandidates applies the additive factor table. Inactive employees are
// excluded before scoring; reasons accumulate in evaluation order and the
// jitter term never produces a reason.
func (s *RecommendationService) scoreCandidates(snapshots []domain.WorkloadSnapshot, categoryName string) []domain.Recommendation {
	scored := make([]domain.Recommendation, 0, len(snapshots))
	for _, snap := range snapshots {
		if !snap.Active {
			continue
		}

		score := 0
		var reasons []string

		if categoryName != "" && hasSpecialization(snap.Specializations, categoryName) {
			score += scoreSpecializationMatch
			reasons = append(reasons, fmt.Sprintf("Specializes in %s", categoryName))
		}

		switch {
		case snap.ActiveTickets == 0:
			score += scoreNoActiveTickets
			reasons = append(reasons, "Available (no active tickets)")
		case snap.ActiveTickets <= 2:
			score += scoreLightWorkload
			reasons = append(reasons, "Light workload")
		case snap.ActiveTickets <= 5:
			score += scoreModerateWorkload
			reasons = append(reasons, "Moderate workload")
		default:
			score += scoreHeavyWorkload
			reasons = append(reasons, "Heavy workload")
		}

		switch {
		case snap.CompletedTickets > 20:
			score += scoreHighlyExperienced
			reasons = append(reasons, "Highly experienced")
		case snap.CompletedTickets > 10:
			score += scoreExperienced
			reasons = append(reasons, "Experienced")
		case snap.CompletedTickets > 5:
			score += scoreSomeExperience
			reasons = append(reasons, "Some experience")
		}

		score += s.rand.Intn(scoreJitterMax + 1)

		scored = append(scored, domain.Recommendation{
			WorkloadSnapshot: snap,
			Score:            score,
			Reasons:          reasons,
		})
	}
	return scored
}

func hasSpecialization(specializations []string, name string) bool {
	for _, spec := range specializations {
		if strings.EqualFold(spec, name) {
			return true
		}
	}
	return false
}
