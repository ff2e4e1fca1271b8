package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAGARJHA0511/MealCount/internal/models"
)

// countsCacheTTL bounds staleness when an invalidation is missed.
const countsCacheTTL = 30 * time.Second

func countsCacheKey(date, department string) string {
	if department == "" {
		department = "_all"
	}
	return fmt.Sprintf("meal-counts:%s:%s", date, department)
}

// CountService derives the aggregated meal counts from the opt ledger plus
// administrative adjustments.
type CountService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewCountService(db *gorm.DB, cache *redis.Client) *CountService {
	return &CountService{db: db, cache: cache}
}

// Aggregate computes the counts for date, optionally scoped to a department.
// responded counts every non-pending decision; pending is the employee
// headcount of the scope minus responded. total is always re-derived as
// vegetarian + non-vegetarian.
func (s *CountService) Aggregate(ctx context.Context, date, department string) (*models.MealCount, error) {
	if cached := s.readCache(ctx, date, department); cached != nil {
		return cached, nil
	}

	count, err := s.derive(ctx, date, department)
	if err != nil {
		return nil, err
	}

	adj, err := s.adjustment(ctx, date, department)
	if err != nil {
		return nil, err
	}
	count.Vegetarian = max(0, count.Vegetarian+adj.Vegetarian)
	count.NonVegetarian = max(0, count.NonVegetarian+adj.NonVegetarian)
	count.Total = count.Vegetarian + count.NonVegetarian

	s.writeCache(ctx, date, department, count)
	return count, nil
}

// AggregateByDepartment returns per-department counts plus the organization
// totals, and checks that the department subtotals sum to the org-wide
// aggregate before returning.
func (s *CountService) AggregateByDepartment(ctx context.Context, date string) ([]models.DepartmentCount, *models.MealCount, error) {
	var departments []string
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND department <> ''", models.RoleEmployee).
		Distinct().
		Order("department").
		Pluck("department", &departments).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list departments: %w", err)
	}

	counts := make([]models.DepartmentCount, 0, len(departments))
	var sum models.MealCount
	for _, dept := range departments {
		c, err := s.Aggregate(ctx, date, dept)
		if err != nil {
			return nil, nil, err
		}
		counts = append(counts, models.DepartmentCount{Department: dept, MealCount: *c})
		sum.Total += c.Total
		sum.Vegetarian += c.Vegetarian
		sum.NonVegetarian += c.NonVegetarian
		sum.Responded += c.Responded
		sum.Pending += c.Pending
	}

	totals, err := s.Aggregate(ctx, date, "")
	if err != nil {
		return nil, nil, err
	}
	// Org-level adjustments (empty department) are deliberately outside the
	// per-department sum; everything else must reconcile. Department-scoped
	// adjustments are already inside sum via each department's Aggregate, so
	// only the org-only slice may be added here.
	orgAdj, err := s.orgOnlyAdjustment(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	if sum.Vegetarian+orgAdj.Vegetarian != totals.Vegetarian ||
		sum.NonVegetarian+orgAdj.NonVegetarian != totals.NonVegetarian {
		return nil, nil, fmt.Errorf("department subtotals for %s do not reconcile with organization totals", date)
	}

	return counts, totals, nil
}

// Adjust applies a manual +/-1 style override to one dietary component for
// (date, department). A decrement that would push the effective component
// below zero is ignored rather than rejected; total is re-derived on the
// next read.
func (s *CountService) Adjust(ctx context.Context, date, department string, diet models.DietaryType, delta int) (*models.MealCount, error) {
	if !models.ValidDietaryType(diet) {
		return nil, fmt.Errorf("%w: unknown dietary type %q", ErrValidation, diet)
	}

	derived, err := s.derive(ctx, date, department)
	if err != nil {
		return nil, err
	}

	var adj models.CountAdjustment
	err = s.db.WithContext(ctx).Where("date = ? AND department = ?", date, department).First(&adj).Error
	if err == gorm.ErrRecordNotFound {
		adj = models.CountAdjustment{Date: date, Department: department}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load count adjustment: %w", err)
	}

	switch diet {
	case models.DietVegetarian:
		if derived.Vegetarian+adj.Vegetarian+delta >= 0 {
			adj.Vegetarian += delta
		}
	case models.DietNonVegetarian:
		if derived.NonVegetarian+adj.NonVegetarian+delta >= 0 {
			adj.NonVegetarian += delta
		}
	}

	if err := s.db.WithContext(ctx).Save(&adj).Error; err != nil {
		return nil, fmt.Errorf("failed to store count adjustment: %w", err)
	}

	s.invalidate(ctx, date)
	return s.Aggregate(ctx, date, department)
}

// derive computes the raw projection from meal_opts, before adjustments.
func (s *CountService) derive(ctx context.Context, date, department string) (*models.MealCount, error) {
	scope := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleEmployee)
	if department != "" {
		scope = scope.Where("department = ?", department)
	}

	var headcount int64
	if err := scope.Count(&headcount).Error; err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}

	opts := s.db.WithContext(ctx).
		Model(&models.MealOpt{}).
		Joins("JOIN users ON users.id = meal_opts.user_id").
		Where("meal_opts.date = ? AND users.role = ?", date, models.RoleEmployee)
	if department != "" {
		opts = opts.Where("users.department = ?", department)
	}

	var responded, veg, nonVeg int64
	if err := opts.Session(&gorm.Session{}).
		Where("meal_opts.decision <> ?", models.DecisionPending).
		Count(&responded).Error; err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}
	if err := opts.Session(&gorm.Session{}).
		Where("meal_opts.decision = ? AND meal_opts.dietary_preference = ?", models.DecisionOptedIn, models.DietVegetarian).
		Count(&veg).Error; err != nil {
		return nil, fmt.Errorf("failed to count vegetarian opt-ins: %w", err)
	}
	if err := opts.Session(&gorm.Session{}).
		Where("meal_opts.decision = ? AND meal_opts.dietary_preference = ?", models.DecisionOptedIn, models.DietNonVegetarian).
		Count(&nonVeg).Error; err != nil {
		return nil, fmt.Errorf("failed to count non-vegetarian opt-ins: %w", err)
	}

	pending := headcount - responded
	if pending < 0 {
		pending = 0
	}

	return &models.MealCount{
		Total:         int(veg + nonVeg),
		Vegetarian:    int(veg),
		NonVegetarian: int(nonVeg),
		Responded:     int(responded),
		Pending:       int(pending),
	}, nil
}

// adjustment sums the stored deltas that apply to the given scope. An empty
// department means the org-wide scope, which includes every adjustment for
// the date, department-scoped ones too.
func (s *CountService) adjustment(ctx context.Context, date, department string) (*models.CountAdjustment, error) {
	q := s.db.WithContext(ctx).Model(&models.CountAdjustment{}).Where("date = ?", date)
	if department != "" {
		q = q.Where("department = ?", department)
	}
	return sumAdjustments(q)
}

// orgOnlyAdjustment sums only the deltas stored against the organization
// itself (empty department), excluding department-scoped ones.
func (s *CountService) orgOnlyAdjustment(ctx context.Context, date string) (*models.CountAdjustment, error) {
	q := s.db.WithContext(ctx).Model(&models.CountAdjustment{}).
		Where("date = ? AND department = ''", date)
	return sumAdjustments(q)
}

func sumAdjustments(q *gorm.DB) (*models.CountAdjustment, error) {
	var adj models.CountAdjustment
	err := q.Select("COALESCE(SUM(vegetarian), 0) AS vegetarian, COALESCE(SUM(non_vegetarian), 0) AS non_vegetarian").
		Scan(&adj).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load count adjustments: %w", err)
	}
	return &adj, nil
}

func (s *CountService) readCache(ctx context.Context, date, department string) *models.MealCount {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, countsCacheKey(date, department)).Bytes()
	if err != nil {
		return nil
	}
	var count models.MealCount
	if err := json.Unmarshal(data, &count); err != nil {
		return nil
	}
	return &count
}

func (s *CountService) writeCache(ctx context.Context, date, department string, count *models.MealCount) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(count)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, countsCacheKey(date, department), data, countsCacheTTL).Err()
}

func (s *CountService) invalidate(ctx context.Context, date string) {
	if s.cache == nil {
		return
	}
	keys, err := s.cache.Keys(ctx, countsCacheKey(date, "*")).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	_ = s.cache.Del(ctx, keys...).Err()
}
